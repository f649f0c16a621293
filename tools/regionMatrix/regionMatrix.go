/* Copyright (C) 2016 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */


package main

/* -------------------------------------------------------------------------- */

import   "bufio"
import   "fmt"
import   "io"
import   "os"
import   "sort"
import   "strconv"

import . "github.com/pbenner/regionmatrix"

import   "github.com/pborman/getopt"
import   "github.com/pkg/profile"
import   log "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

type SessionConfig struct {
  Config
  BpCoverage bool
  Filtered   bool
  Format     string
}

/* -------------------------------------------------------------------------- */

type nopCloser struct {
  io.Writer
}

func (nopCloser) Close() error {
  return nil
}

/* -------------------------------------------------------------------------- */

func importGenome(filename, assembly string) Genome {
  genome := Genome{}
  switch {
  case filename != "":
    log.Infof("reading genome `%s'", filename)
    if err := genome.Import(filename); err != nil {
      log.Fatal(err)
    }
  case assembly != "":
    log.Infof("importing chromosome sizes of `%s' from UCSC", assembly)
    if err := genome.ImportFromUCSC(assembly); err != nil {
      log.Fatal(err)
    }
  }
  return genome
}

func importTotalMapped(filename string) map[string]float64 {
  if filename == "" {
    return nil
  }
  log.Infof("reading number of mapped reads from `%s'", filename)
  r, err := ImportTotalMapped(filename)
  if err != nil {
    log.Fatal(err)
  }
  return r
}

func importCoverage(config SessionConfig, filename string) map[string]ChromosomeCoverage {
  log.Infof("reading coverage table `%s'", filename)
  tracks, err := ImportCoverageTable(filename, config.Genome)
  if err != nil {
    log.Fatal(err)
  }
  inputs := make(map[string]ChromosomeCoverage)
  for seqname, track := range tracks {
    if config.Filtered {
      if r, err := AsFiltered(track); err != nil {
        log.Fatalf("sequence `%s': %v", seqname, err)
      } else {
        inputs[seqname] = r
      }
    } else {
      inputs[seqname] = track
    }
  }
  return inputs
}

/* -------------------------------------------------------------------------- */

func sortedSeqnames(results map[string]ChromosomeResult) []string {
  seqnames := []string{}
  for seqname := range results {
    seqnames = append(seqnames, seqname)
  }
  sort.Strings(seqnames)
  return seqnames
}

func exportFile(filename string, f func(w io.Writer) error) {
  log.Infof("writing `%s'", filename)
  file, err := os.Create(filename)
  if err != nil {
    log.Fatal(err)
  }
  defer file.Close()

  w := bufio.NewWriter(file)
  if err := f(w); err != nil {
    log.Fatal(err)
  }
  if err := w.Flush(); err != nil {
    log.Fatal(err)
  }
}

func exportResults(config SessionConfig, results map[string]ChromosomeResult, prefix string) {
  regions, matrix, err := CombineResults(results)
  if err != nil {
    log.Fatal(err)
  }
  exportFile(prefix+".regions.table", func(w io.Writer) error {
    return regions.WriteTable(w, true)
  })
  switch config.Format {
  case "table":
    exportFile(prefix+".matrix.table", func(w io.Writer) error {
      return matrix.WriteTable(w, regions, true)
    })
  case "csv":
    exportFile(prefix+".matrix.csv", func(w io.Writer) error {
      return matrix.WriteCSV(w, regions)
    })
  case "npy":
    exportFile(prefix+".matrix.npy", func(w io.Writer) error {
      return matrix.WriteNpy(nopCloser{w})
    })
  }
  if config.BpCoverage {
    exportFile(prefix+".bp.table", func(w io.Writer) error {
      header := true
      for _, seqname := range sortedSeqnames(results) {
        r := results[seqname]
        if err := WriteBpCoverageTable(w, r.CoverageMatrix.Samples, r.Regions, r.BpCoverage, header); err != nil {
          return err
        }
        header = false
      }
      return nil
    })
  }
}

/* -------------------------------------------------------------------------- */

func regionMatrix(config SessionConfig, cutoff float64, filenameIn, prefix string) {
  inputs := importCoverage(config, filenameIn)

  results, err := RegionMatrix(inputs, cutoff, config.Config)
  if err != nil {
    log.Fatal(err)
  }
  exportResults(config, results, prefix)
}

/* -------------------------------------------------------------------------- */

// Start cpu profiling and return the function that stops it. The profile is
// also written if the program terminates with log.Fatal.
func startProfile(dir string) func() {
  p := profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet)
  // log.Fatal exits without running deferred calls
  log.RegisterExitHandler(p.Stop)
  return p.Stop
}

/* -------------------------------------------------------------------------- */

func main() {
  config  := SessionConfig{Config: DefaultConfig()}
  options := getopt.New()

  optCutoff        := options. StringLong("cutoff",          0 , "",     "coverage cutoff [required]")
  optFilter        := options. StringLong("filter",          0 , "mean", "filter rule [one, mean (default)]")
  optMaxRegionGap  := options.    IntLong("max-region-gap",  0 ,  0,     "maximal number of missing positions within a region [default: 0]")
  optMaxClusterGap := options.    IntLong("max-cluster-gap", 0 ,  300,   "maximal gap between regions of the same cluster [default: 300]")
  optReadWidth     := options. StringLong("read-width",      0 , "36",   "read width used to convert coverage to read counts [default: 36]")
  optTotalMapped   := options. StringLong("total-mapped",    0 , "",     "table with the number of mapped reads per sample")
  optTargetSize    := options. StringLong("target-size",     0 , "80e6", "library size used for normalization [default: 80e6]")
  optFiltered      := options.   BoolLong("filtered",        0 ,         "coverage table is already filtered")
  optBpCoverage    := options.   BoolLong("bp-coverage",     0 ,         "export per-base coverage of all regions")
  optGenome        := options. StringLong("genome",          0 , "",     "file with chromosome sizes")
  optGenomeUCSC    := options. StringLong("genome-ucsc",     0 , "",     "import chromosome sizes of the given assembly from UCSC")
  optFormat        := options. StringLong("format",          0 , "table","matrix output format [table (default), csv, npy]")
  optThreads       := options.    IntLong("threads",         0 ,  1,     "number of threads [default: 1]")
  optStatus        := options.   BoolLong("status",          0 ,         "show status bar")
  optProfile       := options. StringLong("profile",         0 , "",     "write cpu profile to directory")
  optVerbose       := options.CounterLong("verbose",        'v',         "verbose level [-v or -vv]")
  optHelp          := options.   BoolLong("help",           'h',         "print help")

  options.SetParameters("<COVERAGE.table> <OUTPUT-PREFIX>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  log.SetOutput(os.Stderr)
  switch *optVerbose {
  case 0:
    log.SetLevel(log.WarnLevel)
  case 1:
    log.SetLevel(log.InfoLevel)
  default:
    log.SetLevel(log.DebugLevel)
  }
  if *optCutoff == "" {
    fmt.Fprintf(os.Stderr, "missing option --cutoff\n\n")
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  cutoff, err := strconv.ParseFloat(*optCutoff, 64)
  if err != nil {
    log.Fatalf("invalid cutoff: %v", err)
  }
  if rule, err := ParseFilterRule(*optFilter); err != nil {
    log.Fatal(err)
  } else {
    config.Rule = rule
  }
  if v, err := strconv.ParseFloat(*optReadWidth, 64); err != nil {
    log.Fatalf("invalid read width: %v", err)
  } else {
    config.ReadWidth = v
  }
  if v, err := strconv.ParseFloat(*optTargetSize, 64); err != nil {
    log.Fatalf("invalid target size: %v", err)
  } else {
    config.TargetSize = v
  }
  switch *optFormat {
  case "table", "csv", "npy":
    config.Format = *optFormat
  default:
    log.Fatalf("invalid output format `%s'", *optFormat)
  }
  if *optProfile != "" {
    defer startProfile(*optProfile)()
  }
  config.MaxRegionGap     = *optMaxRegionGap
  config.MaxClusterGap    = *optMaxClusterGap
  config.AlreadyFiltered  = *optFiltered
  config.Filtered         = *optFiltered
  config.ReturnBpCoverage = *optBpCoverage
  config.BpCoverage       = *optBpCoverage
  config.Threads          = *optThreads
  config.Status           = *optStatus
  config.Logger           = log.StandardLogger()
  config.Genome           = importGenome(*optGenome, *optGenomeUCSC)
  config.TotalMapped      = importTotalMapped(*optTotalMapped)

  if config.Filtered && config.TotalMapped != nil {
    log.Warn("coverage is already filtered, ignoring number of mapped reads")
  }

  regionMatrix(config, cutoff, options.Args()[0], options.Args()[1])
}
