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

import "sort"

import "gonum.org/v1/gonum/floats"

/* -------------------------------------------------------------------------- */

// Offsets of the first and last position of region i in the filtered
// track. Regions that do not carry offsets are located by their start and
// end positions.
func regionOffsets(regions Regions, i int, track FilteredTrack) (int, int, error) {
  r    := regions.Ranges[i]
  from := regions.IndexStart[i]
  to   := regions.IndexEnd  [i]
  if from < 0 && to < 0 {
    from = sort.SearchInts(track.Positions, r.Start)
    to   = sort.SearchInts(track.Positions, r.End)
  }
  if from < 0 || to >= track.Length() || from > to {
    return 0, 0, newDataShapeError("region `%d' at `%s:%d-%d' is outside of the coverage track",
      i+1, regions.Seqnames[i], r.Start, r.End)
  }
  if track.Positions[from] != r.Start || track.Positions[to] != r.End {
    return 0, 0, newDataShapeError("region `%d' at `%s:%d-%d' does not match the positions of the coverage track",
      i+1, regions.Seqnames[i], r.Start, r.End)
  }
  return from, to, nil
}

// Sum of the coverage of each sample over each region. The result has one
// row per region and one column per sample.
func RegionCoverage(regions Regions, track FilteredTrack) ([][]float64, error) {
  if err := track.Validate(); err != nil {
    return nil, err
  }
  result := make([][]float64, regions.Length())
  for i := 0; i < regions.Length(); i++ {
    from, to, err := regionOffsets(regions, i, track)
    if err != nil {
      return nil, err
    }
    result[i] = make([]float64, track.NSamples())
    for j, seq := range track.Coverage {
      result[i][j] = floats.Sum(seq[from:to+1])
    }
  }
  return result, nil
}

// Per-base coverage of a single region. Row k of the matrix contains the
// coverage at Positions[k].
type BpCoverage struct {
  Positions []int
  CoverageMatrix
}

// Per-base coverage of each region at all filtered positions within the
// region.
func RegionBpCoverage(regions Regions, track FilteredTrack) ([]BpCoverage, error) {
  if err := track.Validate(); err != nil {
    return nil, err
  }
  result := make([]BpCoverage, regions.Length())
  for i := 0; i < regions.Length(); i++ {
    from, to, err := regionOffsets(regions, i, track)
    if err != nil {
      return nil, err
    }
    m := AllocCoverageMatrix(track.Samples, to-from+1)
    for j, seq := range track.Coverage {
      for k := from; k <= to; k++ {
        m.Set(k-from, j, seq[k])
      }
    }
    positions := make([]int, to-from+1)
    copy(positions, track.Positions[from:to+1])
    result[i] = BpCoverage{positions, m}
  }
  return result, nil
}
