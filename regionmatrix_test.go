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
import "fmt"
import "io"
import "math"
import "math/rand"
import "runtime"
import "testing"
import "time"

import "github.com/sirupsen/logrus"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

/* -------------------------------------------------------------------------- */

func testConfig() Config {
  logger := logrus.New()
  logger.SetOutput(io.Discard)

  config := DefaultConfig()
  config.Logger = logger
  return config
}

func randomTrack(seed int64, samples []string, n int) RawTrack {
  r    := rand.New(rand.NewSource(seed))
  data := make([][]float64, len(samples))
  for j := range data {
    data[j] = make([]float64, n)
    for i := range data[j] {
      // sparse coverage with blocks of signal
      if (i/50) % 3 == 0 {
        data[j][i] = float64(r.Intn(15))
      } else if r.Intn(10) == 0 {
        data[j][i] = float64(r.Intn(8))
      }
    }
  }
  return RawTrack{Samples: samples, Data: data}
}

/* -------------------------------------------------------------------------- */

func TestRegionMatrixSimple(t *testing.T) {
  config := testConfig()
  config.Rule             = FilterOne
  config.MaxRegionGap     = 0
  config.ReadWidth        = 36
  config.ReturnBpCoverage = true

  inputs := map[string]ChromosomeCoverage{
    "chr1": RawTrack{Samples: []string{"s1"}, Data: [][]float64{{0, 0, 10, 10, 10, 0, 0}}} }

  results, err := RegionMatrix(inputs, 5, config)
  require.NoError(t, err)
  require.Contains(t, results, "chr1")

  r := results["chr1"]
  checkRegions(t, r.Regions, []int{3}, []int{5})
  assert.Equal(t, 1, r.CoverageMatrix.Rows)
  assert.Equal(t, 1, r.CoverageMatrix.Cols())
  assert.Equal(t, 30.0/36.0, r.CoverageMatrix.At(0, 0))

  require.Equal(t, 1, len(r.BpCoverage))
  assert.Equal(t, []int{3, 4, 5}, r.BpCoverage[0].Positions)
  assert.Equal(t, []float64{10, 10, 10}, r.BpCoverage[0].Col(0))
}

func TestRegionMatrixZero(t *testing.T) {
  inputs := map[string]ChromosomeCoverage{
    "chr1": RawTrack{Samples: []string{"s1", "s2"}, Data: [][]float64{make([]float64, 100), make([]float64, 100)}} }

  results, err := RegionMatrix(inputs, 0, testConfig())
  require.NoError(t, err)
  require.Equal(t, 1, len(results))

  r := results["chr1"]
  assert.Equal(t, 0, r.Regions.Length())
  assert.Equal(t, 0, r.CoverageMatrix.Rows)
  assert.Equal(t, 2, r.CoverageMatrix.Cols())
  assert.Equal(t, 0, len(r.CoverageMatrix.Data))
}

func TestRegionMatrixScenario(t *testing.T) {
  config := testConfig()
  config.Rule          = FilterMean
  config.MaxRegionGap  = 10
  config.MaxClusterGap = 300
  config.ReadWidth     = 36

  track  := randomTrack(1, []string{"s1", "s2", "s3"}, 10000)
  inputs := map[string]ChromosomeCoverage{"chr21": track}

  results, err := RegionMatrix(inputs, 5, config)
  require.NoError(t, err)
  require.Equal(t, 1, len(results))
  require.Contains(t, results, "chr21")

  r := results["chr21"]
  require.True(t, r.Regions.Length() > 0)
  assert.Equal(t, r.Regions.Length(), r.CoverageMatrix.Rows)
  assert.Equal(t, 3, r.CoverageMatrix.Cols())

  filtered, err := FilterCoverage(track, 5, config.filterConfig())
  require.NoError(t, err)
  for i := 0; i < r.Regions.Length(); i++ {
    region := r.Regions.Ranges[i]
    assert.True(t, region.Width() >= 1)
    if i > 0 {
      assert.True(t, r.Regions.Ranges[i-1].End < region.Start)
    }
    // coverage sum over all retained positions of the region
    for j := 0; j < 3; j++ {
      sum := 0.0
      for k, p := range filtered.Positions {
        if p >= region.Start && p <= region.End {
          sum += filtered.Coverage[j][k]
        }
      }
      assert.Equal(t, sum/36, r.CoverageMatrix.At(i, j))
    }
  }
}

func TestRegionMatrixPrefiltered(t *testing.T) {
  config := testConfig()
  config.Rule          = FilterOne
  config.MaxRegionGap  = 5
  config.MaxClusterGap = 100
  config.TotalMapped   = map[string]float64{"s1": 20e6, "s2": 40e6}

  inputs   := map[string]ChromosomeCoverage{}
  prefilt  := map[string]ChromosomeCoverage{}
  for k, seqname := range []string{"chr1", "chr2", "chr3"} {
    track := randomTrack(int64(k+10), []string{"s1", "s2"}, 3000)
    inputs[seqname] = track
    if r, err := FilterCoverage(track, 4, config.filterConfig()); err != nil {
      t.Fatal(err)
    } else {
      prefilt[seqname] = r
    }
  }
  results1, err := RegionMatrix(inputs, 4, config)
  require.NoError(t, err)

  config.AlreadyFiltered = true
  config.Threads         = 3
  results2, err := RegionMatrix(prefilt, 4, config)
  require.NoError(t, err)

  assert.Equal(t, results1, results2)
}

func TestRegionMatrixNormalization(t *testing.T) {
  config := testConfig()
  config.Rule = FilterOne

  track  := randomTrack(2, []string{"s1", "s2"}, 2000)
  inputs := map[string]ChromosomeCoverage{"chr1": track}

  results1, err := RegionMatrix(inputs, 0, config)
  require.NoError(t, err)

  config.TotalMapped = map[string]float64{"s1": 40e6, "s2": 80e6}
  results2, err := RegionMatrix(inputs, 0, config)
  require.NoError(t, err)

  m1 := results1["chr1"].CoverageMatrix
  m2 := results2["chr1"].CoverageMatrix
  require.True(t, m1.Rows > 0)
  assert.Equal(t, results1["chr1"].Regions.Ranges, results2["chr1"].Regions.Ranges)
  require.Equal(t, m1.Rows, m2.Rows)
  for i := 0; i < m1.Rows; i++ {
    assert.InDelta(t, 2*m1.At(i, 0), m2.At(i, 0), 1e-10)
    assert.InDelta(t,   m1.At(i, 1), m2.At(i, 1), 1e-10)
  }
}

func TestRegionMatrixThreads(t *testing.T) {
  config := testConfig()
  config.MaxRegionGap = 2

  inputs := map[string]ChromosomeCoverage{}
  for k, seqname := range []string{"chr1", "chr2", "chr3", "chr4", "chrX"} {
    inputs[seqname] = randomTrack(int64(k), []string{"a", "b", "c"}, 1000+100*k)
  }
  results1, err := RegionMatrix(inputs, 3, config)
  require.NoError(t, err)

  config.Threads = 16
  results2, err := RegionMatrix(inputs, 3, config)
  require.NoError(t, err)

  assert.Equal(t, results1, results2)
  assert.Equal(t, 5, len(results2))
  for seqname := range inputs {
    r, err := ChromosomeRegionMatrix(seqname, inputs[seqname], 3, config)
    require.NoError(t, err)
    assert.Equal(t, r, results2[seqname])
    for i := 0; i < r.Regions.Length(); i++ {
      assert.Equal(t, seqname, r.Regions.Seqnames[i])
    }
  }
}

/* -------------------------------------------------------------------------- */

func TestRegionMatrixConfigErrors(t *testing.T) {
  var configErr *ConfigurationError

  track := randomTrack(3, []string{"s1", "s2"}, 100)
  filtered, err := FilterCoverage(track, 1, FilterConfig{Rule: FilterMean})
  require.NoError(t, err)

  check := func(inputs map[string]ChromosomeCoverage, cutoff float64, config Config, field string) {
    t.Helper()
    results, err := RegionMatrix(inputs, cutoff, config)
    assert.Nil(t, results)
    if assert.True(t, errors.As(err, &configErr), "expected configuration error, got %v", err) {
      assert.Equal(t, field, configErr.Field)
    }
  }
  raw := map[string]ChromosomeCoverage{"chr1": track}

  check(map[string]ChromosomeCoverage{}, 1, testConfig(), "")
  check(map[string]ChromosomeCoverage{"": track}, 1, testConfig(), "")
  check(map[string]ChromosomeCoverage{"chr1": nil}, 1, testConfig(), "")
  check(map[string]ChromosomeCoverage{"chr1": &track}, 1, testConfig(), "")

  config := testConfig()
  check(raw, math.NaN(), config, "cutoff")

  config = testConfig()
  config.MaxRegionGap  = 10
  config.MaxClusterGap = 5
  check(raw, 1, config, "MaxClusterGap")

  config = testConfig()
  config.MaxRegionGap  = -1
  check(raw, 1, config, "MaxRegionGap")

  config = testConfig()
  config.ReadWidth = 0
  check(raw, 1, config, "ReadWidth")

  config = testConfig()
  config.Threads = 0
  check(raw, 1, config, "Threads")

  config = testConfig()
  config.Rule = FilterRule(3)
  check(raw, 1, config, "Rule")

  config = testConfig()
  config.TotalMapped = map[string]float64{"s1": 1e6}
  check(raw, 1, config, "TotalMapped")

  config = testConfig()
  config.AlreadyFiltered = true
  check(raw, 1, config, "AlreadyFiltered")

  config = testConfig()
  check(map[string]ChromosomeCoverage{"chr1": filtered}, 1, config, "AlreadyFiltered")

  config = testConfig()
  config.AlreadyFiltered = true
  incomplete := filtered
  incomplete.Mean = nil
  check(map[string]ChromosomeCoverage{"chr1": filtered, "chr2": incomplete}, 1, config, "AlreadyFiltered")
}

func TestRegionMatrixChromosomeError(t *testing.T) {
  var chrErr   *ChromosomeError
  var shapeErr *DataShapeError

  config := testConfig()
  config.Threads = 2

  bad := randomTrack(4, []string{"s1", "s2"}, 100)
  bad.Data[1] = bad.Data[1][0:99]

  inputs := map[string]ChromosomeCoverage{
    "chr1": randomTrack(5, []string{"s1", "s2"}, 100),
    "chr2": bad,
    "chr3": randomTrack(6, []string{"s1", "s2"}, 100) }

  results, err := RegionMatrix(inputs, 1, config)
  assert.Nil(t, results)
  require.True(t, errors.As(err, &chrErr))
  assert.Equal(t, "chr2", chrErr.Seqname)
  assert.True(t, errors.As(err, &shapeErr))
}

func TestRegionMatrixFirstError(t *testing.T) {
  var chrErr *ChromosomeError

  config := testConfig()
  config.Threads = 4

  inputs := map[string]ChromosomeCoverage{}
  for k, seqname := range []string{"chr1", "chr2", "chr3", "chr4"} {
    track := randomTrack(int64(k), []string{"s1", "s2"}, 500)
    if seqname == "chr2" || seqname == "chr4" {
      track.Data[0] = track.Data[0][0:10]
    }
    inputs[seqname] = track
  }
  results, err := RegionMatrix(inputs, 1, config)
  assert.Nil(t, results)
  require.True(t, errors.As(err, &chrErr))
  assert.Contains(t, []string{"chr2", "chr4"}, chrErr.Seqname)
}

func TestFirstErrorKeepsFirst(t *testing.T) {
  errs := firstError{}
  assert.Nil(t, errs.get())

  err1 := errors.New("error 1")
  err2 := errors.New("error 2")
  errs.set(err1)
  errs.set(err2)
  assert.Equal(t, err1, errs.get())
}

func TestRegionMatrixStopsWorkers(t *testing.T) {
  config := testConfig()
  config.Threads = 8

  inputs := map[string]ChromosomeCoverage{}
  for k := 0; k < 8; k++ {
    inputs[fmt.Sprintf("chr%d", k+1)] = randomTrack(int64(k), []string{"s1", "s2"}, 200)
  }
  before := runtime.NumGoroutine()
  for i := 0; i < 20; i++ {
    _, err := RegionMatrix(inputs, 2, config)
    require.NoError(t, err)
  }
  // workers exit asynchronously once the pool is stopped
  assert.Eventually(t, func() bool {
    return runtime.NumGoroutine() <= before+2
  }, 5*time.Second, 10*time.Millisecond, "goroutines before: %d, after: %d", before, runtime.NumGoroutine())
}

func TestRegionMatrixGenome(t *testing.T) {
  var chrErr   *ChromosomeError
  var shapeErr *DataShapeError

  config := testConfig()
  config.Genome = NewGenome([]string{"chr1"}, []int{10})

  inputs := map[string]ChromosomeCoverage{
    "chr1": RawTrack{Samples: []string{"s1"}, Data: [][]float64{{0, 0, 10, 10, 10, 0, 0}}} }

  _, err := RegionMatrix(inputs, 5, config)
  require.True(t, errors.As(err, &chrErr))
  assert.True(t, errors.As(err, &shapeErr))

  config.Genome = NewGenome([]string{"chr1"}, []int{7})
  _, err = RegionMatrix(inputs, 5, config)
  assert.NoError(t, err)
}

func TestCombineResults(t *testing.T) {
  config := testConfig()
  inputs := map[string]ChromosomeCoverage{
    "chr2": RawTrack{Samples: []string{"s1"}, Data: [][]float64{{0, 9, 0, 0, 7}}},
    "chr1": RawTrack{Samples: []string{"s1"}, Data: [][]float64{{0, 0, 10, 10, 10, 0, 0}}} }

  results, err := RegionMatrix(inputs, 5, config)
  require.NoError(t, err)

  regions, matrix, err := CombineResults(results)
  require.NoError(t, err)
  assert.Equal(t, []string{"chr1", "chr2", "chr2"}, regions.Seqnames)
  assert.Equal(t, 3, matrix.Rows)
  assert.Equal(t, []float64{30.0/36.0, 9.0/36.0, 7.0/36.0}, matrix.Col(0))

  results["chr3"] = ChromosomeResult{CoverageMatrix: AllocCoverageMatrix([]string{"s2"}, 0)}
  _, _, err = CombineResults(results)
  assert.Error(t, err)
}
