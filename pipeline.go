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

import "fmt"

/* -------------------------------------------------------------------------- */

// Regions and coverage matrix of a single chromosome.
type ChromosomeResult struct {
  Regions        Regions
  CoverageMatrix CoverageMatrix
  // per-base coverage of each region, only set if requested
  BpCoverage     []BpCoverage
}

/* -------------------------------------------------------------------------- */

func checkGenome(seqname string, track RawTrack, genome Genome) error {
  if genome.Length() == 0 {
    return nil
  }
  n, err := genome.SeqLength(seqname)
  if err != nil {
    return newDataShapeError("%v", err)
  }
  if n != track.Length() {
    return newDataShapeError("track has length `%d' but sequence `%s' has length `%d' in the genome", track.Length(), seqname, n)
  }
  return nil
}

func chromosomeRegionMatrix(seqname string, input ChromosomeCoverage, cutoff float64, config Config) (ChromosomeResult, error) {
  var filtered FilteredTrack

  logger := config.logger().WithField("seqname", seqname)

  switch track := input.(type) {
  case RawTrack:
    if err := track.Validate(); err != nil {
      return ChromosomeResult{}, err
    }
    if err := checkGenome(seqname, track, config.Genome); err != nil {
      return ChromosomeResult{}, err
    }
    if r, err := FilterCoverage(track, cutoff, config.filterConfig()); err != nil {
      return ChromosomeResult{}, err
    } else {
      filtered = r
    }
    logger.Debugf("%d of %d positions passed the `%s' filter", filtered.Length(), track.Length(), config.Rule)
  case FilteredTrack:
    if err := track.Validate(); err != nil {
      return ChromosomeResult{}, err
    }
    filtered = track
  default:
    return ChromosomeResult{}, fmt.Errorf("unsupported coverage type `%T'", input)
  }
  // positions already passed the cutoff
  regions, err := FindRegions(seqname, filtered.Positions, filtered.Mean, config.segmentConfig())
  if err != nil {
    return ChromosomeResult{}, err
  }
  logger.Debugf("found %d regions in %d clusters", regions.Length(), regions.NClusters())

  sums, err := RegionCoverage(regions, filtered)
  if err != nil {
    return ChromosomeResult{}, err
  }
  matrix, err := NewCoverageMatrix(filtered.Samples, sums)
  if err != nil {
    return ChromosomeResult{}, err
  }
  matrix.DivideBy(config.ReadWidth)

  result := ChromosomeResult{Regions: regions, CoverageMatrix: matrix}
  if config.ReturnBpCoverage {
    if result.BpCoverage, err = RegionBpCoverage(regions, filtered); err != nil {
      return ChromosomeResult{}, err
    }
  }
  return result, nil
}

// Compute candidate regions and the region coverage matrix of a single
// chromosome. The input is filtered with the given cutoff unless it is
// a FilteredTrack. Entries of the coverage matrix are coverage sums
// divided by the read width.
func ChromosomeRegionMatrix(seqname string, input ChromosomeCoverage, cutoff float64, config Config) (ChromosomeResult, error) {
  if err := config.validateParameters(cutoff); err != nil {
    return ChromosomeResult{}, err
  }
  if r, err := chromosomeRegionMatrix(seqname, input, cutoff, config); err != nil {
    return ChromosomeResult{}, &ChromosomeError{seqname, err}
  } else {
    return r, nil
  }
}
