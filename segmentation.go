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

/* -------------------------------------------------------------------------- */

type SegmentConfig struct {
  // A position belongs to an up-region if its statistic is strictly greater
  // than Cutoff and to a down-region if it is strictly smaller than -Cutoff.
  Cutoff        float64
  // Maximal number of missing positions within a region.
  MaxRegionGap  int
  // Maximal number of bases between two regions of the same cluster.
  MaxClusterGap int
}

func (config SegmentConfig) validate() error {
  if math.IsNaN(config.Cutoff) || config.Cutoff < 0 {
    return newConfigurationError("cutoff", "segmentation cutoff must be non-negative, got `%v'", config.Cutoff)
  }
  if config.MaxRegionGap < 0 {
    return newConfigurationError("MaxRegionGap", "must be non-negative, got `%d'", config.MaxRegionGap)
  }
  if config.MaxClusterGap < config.MaxRegionGap {
    return newConfigurationError("MaxClusterGap", "must not be smaller than MaxRegionGap (`%d' < `%d')", config.MaxClusterGap, config.MaxRegionGap)
  }
  return nil
}

func (config SegmentConfig) direction(x float64) (Direction, bool) {
  if x > config.Cutoff {
    return Up, true
  }
  if x < -config.Cutoff {
    return Down, true
  }
  return 0, false
}

/* -------------------------------------------------------------------------- */

// Find candidate regions on a single chromosome. The statistic stat[i]
// belongs to the 1-based genomic position positions[i]. A region is a
// run of consecutive entries that are all above (or all below) the cutoff,
// where two neighboring entries must not be separated by more than
// MaxRegionGap missing positions. Regions are returned in genomic order
// and grouped into clusters.
func FindRegions(seqname string, positions []int, stat []float64, config SegmentConfig) (Regions, error) {
  if err := config.validate(); err != nil {
    return Regions{}, err
  }
  if len(positions) != len(stat) {
    return Regions{}, newDataShapeError("number of positions (`%d') does not match number of values (`%d')", len(positions), len(stat))
  }
  if !isStrictlyIncreasing(positions) {
    return Regions{}, newDataShapeError("positions are not strictly increasing")
  }
  r    := AllocRegions(0)
  open := false
  row  := Region{}

  closeRegion := func() {
    if open {
      row.Value = row.Area/float64(row.IndexEnd-row.IndexStart+1)
      r.appendRow(row)
      open = false
    }
  }
  for i := range positions {
    d, ok := config.direction(stat[i])
    if !ok {
      closeRegion(); continue
    }
    if open && d == row.Direction && positions[i]-positions[i-1] <= config.MaxRegionGap+1 {
      row.End      = positions[i]
      row.IndexEnd = i
      row.Area    += stat[i]
    } else {
      closeRegion()
      row = Region{
        Seqname   : seqname,
        Range     : Range{positions[i], positions[i]},
        Area      : stat[i],
        Direction : d,
        IndexStart: i,
        IndexEnd  : i }
      open = true
    }
  }
  closeRegion()

  assignClusters(r, config.MaxClusterGap)

  return r, nil
}
