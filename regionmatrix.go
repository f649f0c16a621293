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


package regionmatrix

/* -------------------------------------------------------------------------- */

import "math"
import "os"
import "sort"
import "sync"

import "github.com/pbenner/regionmatrix/lib/progress"

import "github.com/pbenner/threadpool"
import "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

const DefaultTargetSize = 80e6

type Config struct {
  Rule             FilterRule
  MaxRegionGap     int
  MaxClusterGap    int
  // read width used to convert coverage sums to read counts
  ReadWidth        float64
  TotalMapped      map[string]float64
  TargetSize       float64
  // all inputs are FilteredTracks, i.e. the filter and the normalization
  // were already applied by the caller
  AlreadyFiltered  bool
  ReturnBpCoverage bool
  // if set, lengths of raw tracks are checked against the genome
  Genome           Genome
  Threads          int
  Status           bool
  Logger           logrus.FieldLogger
}

func DefaultConfig() Config {
  return Config{
    Rule         : FilterMean,
    MaxRegionGap : 0,
    MaxClusterGap: 300,
    ReadWidth    : 36,
    TargetSize   : DefaultTargetSize,
    Threads      : 1 }
}

/* -------------------------------------------------------------------------- */

func (config Config) logger() logrus.FieldLogger {
  if config.Logger == nil {
    return logrus.StandardLogger()
  }
  return config.Logger
}

func (config Config) filterConfig() FilterConfig {
  return FilterConfig{
    Rule       : config.Rule,
    TotalMapped: config.TotalMapped,
    TargetSize : config.TargetSize }
}

func (config Config) segmentConfig() SegmentConfig {
  return SegmentConfig{
    Cutoff       : 0.0,
    MaxRegionGap : config.MaxRegionGap,
    MaxClusterGap: config.MaxClusterGap }
}

func (config Config) validateParameters(cutoff float64) error {
  if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) {
    return newConfigurationError("cutoff", "invalid cutoff `%v'", cutoff)
  }
  if !config.AlreadyFiltered && !config.Rule.valid() {
    return newConfigurationError("Rule", "invalid filter rule `%v'", config.Rule)
  }
  if err := config.segmentConfig().validate(); err != nil {
    return err
  }
  if !(config.ReadWidth > 0) || math.IsInf(config.ReadWidth, 1) {
    return newConfigurationError("ReadWidth", "read width must be strictly positive, got `%v'", config.ReadWidth)
  }
  if config.Threads < 1 {
    return newConfigurationError("Threads", "number of threads must be at least one, got `%d'", config.Threads)
  }
  return nil
}

// Check all arguments before any chromosome is processed.
func (config Config) validate(inputs map[string]ChromosomeCoverage, cutoff float64) error {
  if err := config.validateParameters(cutoff); err != nil {
    return err
  }
  if len(inputs) == 0 {
    return newConfigurationError("", "no chromosomes given")
  }
  for _, seqname := range sortedKeys(inputs) {
    if seqname == "" {
      return newConfigurationError("", "empty chromosome name")
    }
    switch track := inputs[seqname].(type) {
    case RawTrack:
      if config.AlreadyFiltered {
        return newConfigurationError("AlreadyFiltered", "coverage of `%s' is not filtered", seqname)
      }
      if _, err := NormalizationFactors(track.Samples, config.TotalMapped, config.TargetSize); err != nil {
        return err
      }
    case FilteredTrack:
      if !config.AlreadyFiltered {
        return newConfigurationError("AlreadyFiltered", "coverage of `%s' is already filtered", seqname)
      }
      if field := track.missingField(); field != "" {
        return newConfigurationError("AlreadyFiltered", "filtered coverage of `%s' is missing field `%s'", seqname, field)
      }
    case nil:
      return newConfigurationError("", "no coverage given for `%s'", seqname)
    default:
      return newConfigurationError("", "unsupported coverage type `%T' for `%s'", track, seqname)
    }
  }
  return nil
}

/* -------------------------------------------------------------------------- */

type firstError struct {
  mtx sync.Mutex
  err error
}

func (obj *firstError) set(err error) {
  obj.mtx.Lock()
  defer obj.mtx.Unlock()
  if obj.err == nil {
    obj.err = err
  }
}

func (obj *firstError) get() error {
  obj.mtx.Lock()
  defer obj.mtx.Unlock()
  return obj.err
}

/* -------------------------------------------------------------------------- */

// Compute candidate regions and region coverage matrices for all
// chromosomes. Chromosomes are processed independently on up to
// config.Threads threads. If any chromosome fails, the first error is
// returned and all results are discarded.
func RegionMatrix(inputs map[string]ChromosomeCoverage, cutoff float64, config Config) (map[string]ChromosomeResult, error) {
  if err := config.validate(inputs, cutoff); err != nil {
    return nil, err
  }
  logger   := config.logger()
  seqnames := sortedKeys(inputs)
  results  := make([]ChromosomeResult, len(seqnames))
  // there is no work to split below chromosome level
  threads  := iMin(config.Threads, len(seqnames))

  logger.WithFields(logrus.Fields{
    "chromosomes": len(seqnames),
    "threads"    : threads,
    "filtered"   : config.AlreadyFiltered }).Info("computing region matrix")

  // status bar
  mtx := sync.Mutex{}
  bar := progress.New(len(seqnames), len(seqnames))
  k   := 0

  pool := threadpool.New(threads, 100*threads)
  defer pool.Stop()
  g    := pool.NewJobGroup()
  // the pool keeps the error of the last failing job
  errs := firstError{}

  if err := pool.AddRangeJob(0, len(seqnames), g, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    // some other chromosome already failed
    if erf() != nil {
      return nil
    }
    seqname := seqnames[i]
    logger.WithField("seqname", seqname).Info("processing chromosome")
    r, err := ChromosomeRegionMatrix(seqname, inputs[seqname], cutoff, config)
    if err != nil {
      errs.set(err)
      return err
    }
    logger.WithFields(logrus.Fields{
      "seqname": seqname,
      "regions": r.Regions.Length() }).Info("chromosome done")
    results[i] = r
    if config.Status {
      mtx.Lock()
      k += 1
      bar.Fprint(os.Stderr, k)
      mtx.Unlock()
    }
    return nil
  }); err != nil {
    return nil, err
  }
  if err := pool.Wait(g); err != nil {
    if first := errs.get(); first != nil {
      err = first
    }
    logger.WithError(err).Error("computing region matrix failed")
    return nil, err
  }
  m := make(map[string]ChromosomeResult)
  for i, seqname := range seqnames {
    m[seqname] = results[i]
  }
  return m, nil
}

/* -------------------------------------------------------------------------- */

// Concatenate regions and coverage matrices of all chromosomes. Chromosomes
// are sorted by name and must share the same samples.
func CombineResults(results map[string]ChromosomeResult) (Regions, CoverageMatrix, error) {
  seqnames := make([]string, 0, len(results))
  for seqname := range results {
    seqnames = append(seqnames, seqname)
  }
  sort.Strings(seqnames)

  regions := AllocRegions(0)
  values  := [][]float64{}
  samples := []string{}
  for k, seqname := range seqnames {
    r := results[seqname]
    if k == 0 {
      samples = r.CoverageMatrix.Samples
    } else if !equalStrings(samples, r.CoverageMatrix.Samples) {
      return Regions{}, CoverageMatrix{}, newDataShapeError("samples of sequence `%s' do not match", seqname)
    }
    regions = regions.Append(r.Regions)
    for i := 0; i < r.CoverageMatrix.Rows; i++ {
      values = append(values, r.CoverageMatrix.Row(i))
    }
  }
  matrix, err := NewCoverageMatrix(samples, values)
  if err != nil {
    return Regions{}, CoverageMatrix{}, err
  }
  return regions, matrix, nil
}
