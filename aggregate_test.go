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

import "errors"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

/* -------------------------------------------------------------------------- */

func testFilteredTrack() FilteredTrack {
  return FilteredTrack{
    Samples  : []string{"s1", "s2"},
    Positions: []int{2, 3, 4, 8, 9},
    Coverage : [][]float64{
      { 1,  2,  3,  4,  5},
      {10, 20, 30, 40, 50} },
    Mean     : []float64{5.5, 11, 16.5, 22, 27.5} }
}

/* -------------------------------------------------------------------------- */

func TestRegionCoverage1(t *testing.T) {
  track := testFilteredTrack()

  regions, err := FindRegions("chr1", track.Positions, track.Mean, SegmentConfig{0, 0, 0})
  require.NoError(t, err)
  checkRegions(t, regions, []int{2, 8}, []int{4, 9})

  sums, err := RegionCoverage(regions, track)
  require.NoError(t, err)
  assert.Equal(t, [][]float64{{6, 60}, {9, 90}}, sums)

  regions, err = FindRegions("chr1", track.Positions, track.Mean, SegmentConfig{0, 3, 3})
  require.NoError(t, err)
  checkRegions(t, regions, []int{2}, []int{9})

  sums, err = RegionCoverage(regions, track)
  require.NoError(t, err)
  assert.Equal(t, [][]float64{{15, 150}}, sums)
}

func TestRegionCoverage2(t *testing.T) {
  track := testFilteredTrack()
  // regions without offsets are located by their coordinates
  regions := NewRegions([]string{"chr1", "chr1"}, []int{2, 3}, []int{9, 3})

  sums, err := RegionCoverage(regions, track)
  require.NoError(t, err)
  assert.Equal(t, [][]float64{{15, 150}, {2, 20}}, sums)
}

func TestRegionCoverage3(t *testing.T) {
  var shapeErr *DataShapeError

  track := testFilteredTrack()

  for _, r := range []Range{{5, 6}, {9, 12}, {0, 2}, {3, 7}} {
    regions := NewRegions([]string{"chr1"}, []int{r.Start}, []int{r.End})
    _, err := RegionCoverage(regions, track)
    assert.True(t, errors.As(err, &shapeErr), "region %v", r)
  }
  // offsets outside of the track
  regions := NewRegions([]string{"chr1"}, []int{8}, []int{9})
  regions.IndexStart[0] = 3
  regions.IndexEnd  [0] = 5
  _, err := RegionCoverage(regions, track)
  assert.True(t, errors.As(err, &shapeErr))
}

func TestRegionBpCoverage(t *testing.T) {
  track := testFilteredTrack()

  regions, err := FindRegions("chr1", track.Positions, track.Mean, SegmentConfig{0, 0, 0})
  require.NoError(t, err)

  bp, err := RegionBpCoverage(regions, track)
  require.NoError(t, err)
  require.Equal(t, 2, len(bp))

  assert.Equal(t, []int{2, 3, 4}, bp[0].Positions)
  assert.Equal(t, 3, bp[0].Rows)
  assert.Equal(t, []float64{1, 2, 3}, bp[0].Col(0))
  assert.Equal(t, []float64{30, 40}, []float64{bp[0].At(2, 1), bp[1].At(0, 1)})
  assert.Equal(t, []int{8, 9}, bp[1].Positions)
}
