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

// Group regions into clusters. Regions must be sorted by start position.
// A region joins the current cluster if at most maxGap bases lie between
// the end of the cluster and the start of the region.
func assignClusters(r Regions, maxGap int) {
  cluster := 0
  first   := 0
  end     := 0

  setLength := func(i int) {
    for k := first; k < i; k++ {
      r.ClusterL[k] = end - r.Ranges[first].Start + 1
    }
  }
  for i := 0; i < r.Length(); i++ {
    if i == 0 || r.Ranges[i].Start - end - 1 > maxGap {
      setLength(i)
      cluster += 1
      first    = i
      end      = r.Ranges[i].End
    } else {
      end = iMax(end, r.Ranges[i].End)
    }
    r.Cluster[i] = cluster
  }
  setLength(r.Length())
}

// Recompute clusters for a different gap size. The result is sorted
// by start position.
func ClusterRegions(r Regions, maxGap int) (Regions, error) {
  if maxGap < 0 {
    return Regions{}, newConfigurationError("MaxClusterGap", "must be non-negative, got `%d'", maxGap)
  }
  s := r.SortByStart()
  assignClusters(s, maxGap)
  return s, nil
}
