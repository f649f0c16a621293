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
import "bytes"
import "fmt"
import "io"

import "github.com/go-gota/gota/dataframe"
import "github.com/go-gota/gota/series"
import "github.com/kshedden/gonpy"
import "gonum.org/v1/gonum/floats"

/* -------------------------------------------------------------------------- */

// Dense matrix with one row per region and one column per sample. Values
// are stored row by row.
type CoverageMatrix struct {
  Samples []string
  Rows    int
  Data    []float64
}

/* constructors
 * -------------------------------------------------------------------------- */

func AllocCoverageMatrix(samples []string, rows int) CoverageMatrix {
  return CoverageMatrix{samples, rows, make([]float64, rows*len(samples))}
}

func NewCoverageMatrix(samples []string, values [][]float64) (CoverageMatrix, error) {
  m := AllocCoverageMatrix(samples, len(values))
  for i, row := range values {
    if len(row) != len(samples) {
      return CoverageMatrix{}, newDataShapeError("row `%d' has `%d' columns instead of `%d'", i+1, len(row), len(samples))
    }
    copy(m.Row(i), row)
  }
  return m, nil
}

/* -------------------------------------------------------------------------- */

func (m CoverageMatrix) Cols() int {
  return len(m.Samples)
}

func (m CoverageMatrix) At(i, j int) float64 {
  return m.Data[i*m.Cols()+j]
}

func (m CoverageMatrix) Set(i, j int, v float64) {
  m.Data[i*m.Cols()+j] = v
}

// Row i of the matrix. The returned slice shares memory with the matrix.
func (m CoverageMatrix) Row(i int) []float64 {
  n := m.Cols()
  return m.Data[i*n:(i+1)*n]
}

// Column j of the matrix as a new slice.
func (m CoverageMatrix) Col(j int) []float64 {
  r := make([]float64, m.Rows)
  for i := 0; i < m.Rows; i++ {
    r[i] = m.At(i, j)
  }
  return r
}

// Divide all entries by c.
func (m CoverageMatrix) DivideBy(c float64) {
  for i := range m.Data {
    m.Data[i] /= c
  }
}

// Sum of each column.
func (m CoverageMatrix) ColSums() []float64 {
  r := make([]float64, m.Cols())
  for j := range r {
    r[j] = floats.Sum(m.Col(j))
  }
  return r
}

/* i/o
 * -------------------------------------------------------------------------- */

// Write matrix as a whitespace separated table. Each row is prefixed with
// the coordinates of the corresponding region.
func (m CoverageMatrix) WriteTable(w io.Writer, regions Regions, header bool) error {
  if regions.Length() != m.Rows {
    return newDataShapeError("matrix has `%d' rows but there are `%d' regions", m.Rows, regions.Length())
  }
  if header {
    if _, err := fmt.Fprintf(w, "%14s %10s %10s", "seqnames", "start", "end"); err != nil {
      return err
    }
    for _, name := range m.Samples {
      if _, err := fmt.Fprintf(w, " %14s", name); err != nil {
        return err
      }
    }
    if _, err := fmt.Fprintf(w, "\n"); err != nil {
      return err
    }
  }
  for i := 0; i < m.Rows; i++ {
    if _, err := fmt.Fprintf(w, "%14s %10d %10d", regions.Seqnames[i], regions.Ranges[i].Start, regions.Ranges[i].End); err != nil {
      return err
    }
    for _, v := range m.Row(i) {
      if _, err := fmt.Fprintf(w, " %14f", v); err != nil {
        return err
      }
    }
    if _, err := fmt.Fprintf(w, "\n"); err != nil {
      return err
    }
  }
  return nil
}

func (m CoverageMatrix) ExportTable(filename string, regions Regions, header, compress bool) error {
  var buffer bytes.Buffer

  w := bufio.NewWriter(&buffer)
  if err := m.WriteTable(w, regions, header); err != nil {
    return err
  }
  if err := w.Flush(); err != nil {
    return err
  }
  return writeFile(filename, &buffer, compress)
}

// Convert the matrix into a data frame with region coordinates in the
// first three columns.
func (m CoverageMatrix) DataFrame(regions Regions) (dataframe.DataFrame, error) {
  if regions.Length() != m.Rows {
    return dataframe.DataFrame{}, newDataShapeError("matrix has `%d' rows but there are `%d' regions", m.Rows, regions.Length())
  }
  for _, name := range m.Samples {
    switch name {
    case "seqnames", "start", "end":
      return dataframe.DataFrame{}, newDataShapeError("sample name `%s' is reserved for region coordinates", name)
    }
  }
  start := make([]int, m.Rows)
  end   := make([]int, m.Rows)
  for i := 0; i < m.Rows; i++ {
    start[i] = regions.Ranges[i].Start
    end  [i] = regions.Ranges[i].End
  }
  columns := []series.Series{
    series.New(regions.Seqnames, series.String, "seqnames"),
    series.New(start,            series.Int,    "start"),
    series.New(end,              series.Int,    "end") }
  for j, name := range m.Samples {
    columns = append(columns, series.New(m.Col(j), series.Float, name))
  }
  df := dataframe.New(columns...)
  return df, df.Err
}

func (m CoverageMatrix) WriteCSV(w io.Writer, regions Regions) error {
  df, err := m.DataFrame(regions)
  if err != nil {
    return err
  }
  return df.WriteCSV(w)
}

// Write matrix in numpy format. The writer is closed afterwards.
func (m CoverageMatrix) WriteNpy(w io.WriteCloser) error {
  npw, err := gonpy.NewWriter(w)
  if err != nil {
    return err
  }
  npw.Shape = []int{m.Rows, m.Cols()}
  return npw.WriteFloat64(m.Data)
}
