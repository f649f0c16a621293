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

import "gonum.org/v1/gonum/stat"

/* -------------------------------------------------------------------------- */

// Per-base coverage of all samples on a single chromosome. A value is
// either a RawTrack or a FilteredTrack.
type ChromosomeCoverage interface {
  GetSamples() []string
  isChromosomeCoverage()
}

/* -------------------------------------------------------------------------- */

// A RawTrack holds the coverage of several samples on one chromosome. The
// value Data[j][i] is the coverage of sample j at position i+1. An optional
// Index restricts the track to the positions i+1 with Index[i] set.
type RawTrack struct {
  Samples []string
  Data    [][]float64
  Index   []bool
}

func NewRawTrack(samples []string, data [][]float64) (RawTrack, error) {
  track := RawTrack{Samples: samples, Data: data}
  if err := track.Validate(); err != nil {
    return RawTrack{}, err
  }
  return track, nil
}

func (RawTrack) isChromosomeCoverage() {}

func (track RawTrack) GetSamples() []string {
  return track.Samples
}

func (track RawTrack) NSamples() int {
  return len(track.Samples)
}

// Number of bases covered by the track, including positions excluded
// by the index.
func (track RawTrack) Length() int {
  if len(track.Data) == 0 {
    return 0
  }
  return len(track.Data[0])
}

// Restrict the track to a subset of positions.
func (track RawTrack) Restrict(index []bool) (RawTrack, error) {
  r := RawTrack{track.Samples, track.Data, index}
  if err := r.Validate(); err != nil {
    return RawTrack{}, err
  }
  return r, nil
}

// Positions (1-based) that are part of the track.
func (track RawTrack) Positions() []int {
  r := []int{}
  for i := 0; i < track.Length(); i++ {
    if track.Index == nil || track.Index[i] {
      r = append(r, i+1)
    }
  }
  return r
}

func (track RawTrack) Validate() error {
  if len(track.Samples) == 0 {
    return newDataShapeError("track has no samples")
  }
  if len(track.Samples) != len(track.Data) {
    return newDataShapeError("track has `%d' sample names but `%d' sequences", len(track.Samples), len(track.Data))
  }
  if err := checkSampleNames(track.Samples); err != nil {
    return err
  }
  n := track.Length()
  for j, seq := range track.Data {
    if len(seq) != n {
      return newDataShapeError("sequence of sample `%s' has invalid length (`%d' instead of `%d')", track.Samples[j], len(seq), n)
    }
  }
  if track.Index != nil && len(track.Index) != n {
    return newDataShapeError("position index has invalid length (`%d' instead of `%d')", len(track.Index), n)
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// A FilteredTrack contains only those positions of a track that passed a
// coverage filter. Coverage[j][i] is the coverage of sample j at Positions[i]
// and Mean[i] the mean coverage across all samples at this position.
type FilteredTrack struct {
  Samples   []string
  Positions []int
  Coverage  [][]float64
  Mean      []float64
}

func (FilteredTrack) isChromosomeCoverage() {}

func (track FilteredTrack) GetSamples() []string {
  return track.Samples
}

func (track FilteredTrack) NSamples() int {
  return len(track.Samples)
}

// Number of retained positions.
func (track FilteredTrack) Length() int {
  return len(track.Positions)
}

func (track FilteredTrack) Validate() error {
  if len(track.Samples) == 0 {
    return newDataShapeError("track has no samples")
  }
  if len(track.Samples) != len(track.Coverage) {
    return newDataShapeError("track has `%d' sample names but `%d' sequences", len(track.Samples), len(track.Coverage))
  }
  if err := checkSampleNames(track.Samples); err != nil {
    return err
  }
  n := len(track.Positions)
  if len(track.Mean) != n {
    return newDataShapeError("mean coverage has invalid length (`%d' instead of `%d')", len(track.Mean), n)
  }
  for j, seq := range track.Coverage {
    if len(seq) != n {
      return newDataShapeError("sequence of sample `%s' has invalid length (`%d' instead of `%d')", track.Samples[j], len(seq), n)
    }
  }
  if n > 0 && track.Positions[0] < 1 {
    return newDataShapeError("invalid position `%d'", track.Positions[0])
  }
  if !isStrictlyIncreasing(track.Positions) {
    return newDataShapeError("positions are not strictly increasing")
  }
  return nil
}

// Name of the first field required by the pipeline that is not set.
func (track FilteredTrack) missingField() string {
  switch {
  case track.Samples == nil:
    return "Samples"
  case track.Positions == nil:
    return "Positions"
  case track.Coverage == nil:
    return "Coverage"
  case track.Mean == nil:
    return "Mean"
  }
  return ""
}

/* -------------------------------------------------------------------------- */

// Convert a raw track into a filtered track that retains all indexed
// positions of the track.
func AsFiltered(track RawTrack) (FilteredTrack, error) {
  if err := track.Validate(); err != nil {
    return FilteredTrack{}, err
  }
  positions := track.Positions()
  coverage  := make([][]float64, track.NSamples())
  mean      := make([]float64, len(positions))
  for j := range coverage {
    coverage[j] = make([]float64, len(positions))
    for i, p := range positions {
      coverage[j][i] = track.Data[j][p-1]
    }
  }
  v := make([]float64, track.NSamples())
  for i := range positions {
    for j := range coverage {
      v[j] = coverage[j][i]
    }
    mean[i] = stat.Mean(v, nil)
  }
  return FilteredTrack{track.Samples, positions, coverage, mean}, nil
}

/* -------------------------------------------------------------------------- */

func checkSampleNames(samples []string) error {
  m := make(map[string]struct{})
  for _, name := range samples {
    if name == "" {
      return newDataShapeError("empty sample name")
    }
    if _, ok := m[name]; ok {
      return newDataShapeError("sample `%s' is given multiple times", name)
    }
    m[name] = struct{}{}
  }
  return nil
}
