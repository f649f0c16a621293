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
import "math"
import "strings"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/stat"

/* -------------------------------------------------------------------------- */

// Rule that decides if a position passes the coverage filter.
type FilterRule int

const (
  // At least one sample has a coverage strictly greater than the cutoff.
  FilterOne FilterRule = iota
  // The mean coverage across samples is strictly greater than the cutoff.
  FilterMean
)

func ParseFilterRule(str string) (FilterRule, error) {
  switch strings.ToLower(str) {
  case "one":
    return FilterOne, nil
  case "mean":
    return FilterMean, nil
  default:
    return 0, fmt.Errorf("invalid filter rule `%s'", str)
  }
}

func (rule FilterRule) String() string {
  switch rule {
  case FilterOne:
    return "one"
  case FilterMean:
    return "mean"
  default:
    return fmt.Sprintf("FilterRule(%d)", int(rule))
  }
}

func (rule FilterRule) valid() bool {
  return rule == FilterOne || rule == FilterMean
}

/* -------------------------------------------------------------------------- */

type FilterConfig struct {
  Rule        FilterRule
  // Number of mapped reads per sample. If set, the coverage of each sample
  // is scaled by TargetSize/TotalMapped[sample] before filtering.
  TotalMapped map[string]float64
  TargetSize  float64
}

// Library size normalization factors in sample order. A nil slice is
// returned if no read counts are given.
func NormalizationFactors(samples []string, totalMapped map[string]float64, targetSize float64) ([]float64, error) {
  if totalMapped == nil {
    return nil, nil
  }
  if !(targetSize > 0) || math.IsInf(targetSize, 1) {
    return nil, newConfigurationError("TargetSize", "target size must be strictly positive, got `%v'", targetSize)
  }
  factors := make([]float64, len(samples))
  for j, name := range samples {
    n, ok := totalMapped[name]
    if !ok {
      return nil, newConfigurationError("TotalMapped", "number of mapped reads is missing for sample `%s'", name)
    }
    if !(n > 0) || math.IsInf(n, 1) {
      return nil, newConfigurationError("TotalMapped", "invalid number of mapped reads `%v' for sample `%s'", n, name)
    }
    factors[j] = targetSize/n
  }
  return factors, nil
}

/* -------------------------------------------------------------------------- */

// Filter coverage of a raw track. All positions that pass the filter rule
// are retained together with the (normalized) coverage of each sample and
// the mean coverage across samples.
func FilterCoverage(track RawTrack, cutoff float64, config FilterConfig) (FilteredTrack, error) {
  if err := track.Validate(); err != nil {
    return FilteredTrack{}, err
  }
  if math.IsNaN(cutoff) {
    return FilteredTrack{}, newConfigurationError("cutoff", "cutoff is not a number")
  }
  if !config.Rule.valid() {
    return FilteredTrack{}, newConfigurationError("Rule", "invalid filter rule `%v'", config.Rule)
  }
  factors, err := NormalizationFactors(track.Samples, config.TotalMapped, config.TargetSize)
  if err != nil {
    return FilteredTrack{}, err
  }
  n := track.NSamples()
  v := make([]float64, n)

  positions := []int{}
  coverage  := make([][]float64, n)
  mean      := []float64{}
  for j := range coverage {
    coverage[j] = []float64{}
  }
  for i := 0; i < track.Length(); i++ {
    if track.Index != nil && !track.Index[i] {
      continue
    }
    for j := 0; j < n; j++ {
      v[j] = track.Data[j][i]
    }
    if factors != nil {
      floats.Mul(v, factors)
    }
    m := stat.Mean(v, nil)
    switch config.Rule {
    case FilterOne:
      if !(floats.Max(v) > cutoff) {
        continue
      }
    case FilterMean:
      if !(m > cutoff) {
        continue
      }
    }
    positions = append(positions, i+1)
    mean      = append(mean, m)
    for j := 0; j < n; j++ {
      coverage[j] = append(coverage[j], v[j])
    }
  }
  return FilteredTrack{track.Samples, positions, coverage, mean}, nil
}
