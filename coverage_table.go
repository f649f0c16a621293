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

import "bufio"
import "fmt"
import "io"
import "os"
import "strconv"
import "strings"

/* -------------------------------------------------------------------------- */

type coverageColumns struct {
  positions []int
  values    [][]float64
}

func (c coverageColumns) track(seqname string, samples []string, genome Genome) (RawTrack, error) {
  n := 0
  for _, p := range c.positions {
    n = iMax(n, p)
  }
  if genome.Length() > 0 {
    if m, err := genome.SeqLength(seqname); err != nil {
      return RawTrack{}, err
    } else if m < n {
      return RawTrack{}, fmt.Errorf("position `%d' is outside of sequence `%s' of length `%d'", n, seqname, m)
    } else {
      n = m
    }
  }
  data  := make([][]float64, len(samples))
  index := make([]bool, n)
  for j := range data {
    data[j] = make([]float64, n)
  }
  for i, p := range c.positions {
    if index[p-1] {
      return RawTrack{}, fmt.Errorf("position `%d' on sequence `%s' is given multiple times", p, seqname)
    }
    index[p-1] = true
    for j := range data {
      data[j][p-1] = c.values[j][i]
    }
  }
  if len(c.positions) == n {
    // all positions are present
    index = nil
  }
  return RawTrack{samples, data, index}, nil
}

// Read per-base coverage from a whitespace separated table. The header
// must be `seqname position <sample>...' and each row contains the coverage
// of all samples at a 1-based position. Positions that are not listed
// are excluded by the index of the resulting track. If a genome is given,
// tracks have the length of the corresponding sequence.
func ReadCoverageTable(reader io.Reader, genome Genome) (map[string]RawTrack, error) {
  r, closer, err := newGzipReader(reader)
  if err != nil {
    return nil, err
  }
  defer closer()

  var samples []string

  seqnames := []string{}
  columns  := make(map[string]*coverageColumns)

  scanner := bufio.NewScanner(r)
  // scan header
  if scanner.Scan() {
    fields := strings.Fields(scanner.Text())
    if len(fields) < 3 || !(fields[0] == "seqname" || fields[0] == "seqnames") || fields[1] != "position" {
      return nil, fmt.Errorf("invalid coverage table header")
    }
    samples = fields[2:]
  } else {
    if err := scanner.Err(); err != nil {
      return nil, err
    }
    return nil, fmt.Errorf("coverage table is empty")
  }
  if err := checkSampleNames(samples); err != nil {
    return nil, err
  }
  // scan data
  for i := 2; scanner.Scan(); i++ {
    fields := strings.Fields(scanner.Text())
    if len(fields) == 0 {
      continue
    }
    if len(fields) != len(samples)+2 {
      return nil, fmt.Errorf("invalid number of columns at line `%d'", i)
    }
    p, err := strconv.ParseInt(fields[1], 10, 64)
    if err != nil {
      return nil, fmt.Errorf("parsing position at line `%d' failed: %v", i, err)
    }
    if p < 1 {
      return nil, fmt.Errorf("invalid position `%d' at line `%d'", p, i)
    }
    c, ok := columns[fields[0]]
    if !ok {
      c = &coverageColumns{values: make([][]float64, len(samples))}
      columns[fields[0]] = c
      seqnames = append(seqnames, fields[0])
    }
    c.positions = append(c.positions, int(p))
    for j := range samples {
      v, err := strconv.ParseFloat(fields[j+2], 64)
      if err != nil {
        return nil, fmt.Errorf("parsing coverage of sample `%s' at line `%d' failed: %v", samples[j], i, err)
      }
      c.values[j] = append(c.values[j], v)
    }
  }
  if err := scanner.Err(); err != nil {
    return nil, err
  }
  result := make(map[string]RawTrack)
  for _, seqname := range seqnames {
    if track, err := columns[seqname].track(seqname, samples, genome); err != nil {
      return nil, err
    } else {
      result[seqname] = track
    }
  }
  return result, nil
}

func ImportCoverageTable(filename string, genome Genome) (map[string]RawTrack, error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, err
  }
  defer f.Close()
  return ReadCoverageTable(f, genome)
}

/* -------------------------------------------------------------------------- */

// Read the number of mapped reads per sample from a table with two
// columns, the sample name and the number of reads.
func ReadTotalMapped(reader io.Reader) (map[string]float64, error) {
  r, closer, err := newGzipReader(reader)
  if err != nil {
    return nil, err
  }
  defer closer()

  result  := make(map[string]float64)
  scanner := bufio.NewScanner(r)
  for i := 1; scanner.Scan(); i++ {
    fields := strings.Fields(scanner.Text())
    if len(fields) == 0 {
      continue
    }
    if len(fields) != 2 {
      return nil, fmt.Errorf("invalid number of columns at line `%d'", i)
    }
    v, err := strconv.ParseFloat(fields[1], 64)
    if err != nil {
      return nil, fmt.Errorf("parsing number of reads at line `%d' failed: %v", i, err)
    }
    result[fields[0]] = v
  }
  if err := scanner.Err(); err != nil {
    return nil, err
  }
  return result, nil
}

func ImportTotalMapped(filename string) (map[string]float64, error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, err
  }
  defer f.Close()
  return ReadTotalMapped(f)
}

/* -------------------------------------------------------------------------- */

// Write per-base coverage of all regions. Each row contains the region
// identifier, the position and the coverage of all samples.
func WriteBpCoverageTable(w io.Writer, samples []string, regions Regions, bp []BpCoverage, header bool) error {
  if len(bp) != regions.Length() {
    return newDataShapeError("per-base coverage is given for `%d' regions instead of `%d'", len(bp), regions.Length())
  }
  if header {
    if _, err := fmt.Fprintf(w, "%14s %8s %10s", "seqnames", "region", "position"); err != nil {
      return err
    }
    for _, name := range samples {
      if _, err := fmt.Fprintf(w, " %14s", name); err != nil {
        return err
      }
    }
    if _, err := fmt.Fprintf(w, "\n"); err != nil {
      return err
    }
  }
  for i, m := range bp {
    if m.Cols() != len(samples) {
      return newDataShapeError("per-base coverage of region `%d' has `%d' columns instead of `%d'", i+1, m.Cols(), len(samples))
    }
    for k := 0; k < m.Rows; k++ {
      if _, err := fmt.Fprintf(w, "%14s %8d %10d", regions.Seqnames[i], i+1, m.Positions[k]); err != nil {
        return err
      }
      for _, v := range m.Row(k) {
        if _, err := fmt.Fprintf(w, " %14f", v); err != nil {
          return err
        }
      }
      if _, err := fmt.Fprintf(w, "\n"); err != nil {
        return err
      }
    }
  }
  return nil
}
