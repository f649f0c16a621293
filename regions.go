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
import "sort"

/* -------------------------------------------------------------------------- */

// Direction of a region relative to the cutoff.
type Direction byte

const (
  Up   Direction = '+'
  Down Direction = '-'
)

func (d Direction) String() string {
  switch d {
  case Up:
    return "up"
  case Down:
    return "down"
  default:
    return "*"
  }
}

/* -------------------------------------------------------------------------- */

// Candidate regions of a single chromosome stored column-wise. The
// identifier of a region is its row index plus one.
type Regions struct {
  Seqnames   []string
  Ranges     []Range
  // mean and sum of the statistic over all positions of the region
  Value      []float64
  Area       []float64
  Direction  []Direction
  // offsets of the first and last position of the region in the list
  // of filtered positions
  IndexStart []int
  IndexEnd   []int
  Cluster    []int
  ClusterL   []int
}

// A single row of a Regions object.
type Region struct {
  ID         int
  Seqname    string
  Range
  Value      float64
  Area       float64
  Direction  Direction
  IndexStart int
  IndexEnd   int
  Cluster    int
  ClusterL   int
}

/* constructors
 * -------------------------------------------------------------------------- */

func NewRegions(seqnames []string, start, end []int) Regions {
  n := len(seqnames)
  if len(start) != n || len(end) != n {
    panic("NewRegions(): invalid arguments")
  }
  r := AllocRegions(n)
  for i := 0; i < n; i++ {
    r.Seqnames  [i] = seqnames[i]
    r.Ranges    [i] = NewRange(start[i], end[i])
    r.Direction [i] = Up
    r.IndexStart[i] = -1
    r.IndexEnd  [i] = -1
  }
  return r
}

func AllocRegions(n int) Regions {
  return Regions{
    Seqnames  : make([]string,    n),
    Ranges    : make([]Range,     n),
    Value     : make([]float64,   n),
    Area      : make([]float64,   n),
    Direction : make([]Direction, n),
    IndexStart: make([]int,       n),
    IndexEnd  : make([]int,       n),
    Cluster   : make([]int,       n),
    ClusterL  : make([]int,       n) }
}

/* -------------------------------------------------------------------------- */

func (r Regions) Length() int {
  return len(r.Ranges)
}

func (r Regions) Row(i int) Region {
  return Region{
    ID        : i+1,
    Seqname   : r.Seqnames  [i],
    Range     : r.Ranges    [i],
    Value     : r.Value     [i],
    Area      : r.Area      [i],
    Direction : r.Direction [i],
    IndexStart: r.IndexStart[i],
    IndexEnd  : r.IndexEnd  [i],
    Cluster   : r.Cluster   [i],
    ClusterL  : r.ClusterL  [i] }
}

func (r *Regions) appendRow(row Region) {
  r.Seqnames   = append(r.Seqnames,   row.Seqname)
  r.Ranges     = append(r.Ranges,     row.Range)
  r.Value      = append(r.Value,      row.Value)
  r.Area       = append(r.Area,       row.Area)
  r.Direction  = append(r.Direction,  row.Direction)
  r.IndexStart = append(r.IndexStart, row.IndexStart)
  r.IndexEnd   = append(r.IndexEnd,   row.IndexEnd)
  r.Cluster    = append(r.Cluster,    row.Cluster)
  r.ClusterL   = append(r.ClusterL,   row.ClusterL)
}

func (r Regions) Append(s Regions) Regions {
  result := AllocRegions(0)
  for i := 0; i < r.Length(); i++ {
    result.appendRow(r.Row(i))
  }
  for i := 0; i < s.Length(); i++ {
    result.appendRow(s.Row(i))
  }
  return result
}

func (r Regions) Subset(indices []int) Regions {
  result := AllocRegions(0)
  for _, i := range indices {
    result.appendRow(r.Row(i))
  }
  return result
}

// Number of distinct clusters.
func (r Regions) NClusters() int {
  m := make(map[int]struct{})
  for _, c := range r.Cluster {
    m[c] = struct{}{}
  }
  return len(m)
}

/* sorting
 * -------------------------------------------------------------------------- */

type regionsByStart struct {
  idx    []int
  ranges []Range
}

func (obj regionsByStart) Len() int {
  return len(obj.idx)
}

func (obj regionsByStart) Less(i, j int) bool {
  ri := obj.ranges[obj.idx[i]]
  rj := obj.ranges[obj.idx[j]]
  if ri.Start != rj.Start {
    return ri.Start < rj.Start
  }
  return ri.End < rj.End
}

func (obj regionsByStart) Swap(i, j int) {
  obj.idx[i], obj.idx[j] = obj.idx[j], obj.idx[i]
}

// Sort regions by start position. The sort is stable so that the order
// of identical ranges is preserved.
func (r Regions) SortByStart() Regions {
  idx := make([]int, r.Length())
  for i := range idx {
    idx[i] = i
  }
  sort.Stable(regionsByStart{idx, r.Ranges})
  return r.Subset(idx)
}

/* i/o
 * -------------------------------------------------------------------------- */

// Export regions as a table. The first line contains the header
// of the table.
func (r Regions) WriteTable(w io.Writer, header bool) error {
  if header {
    if _, err := fmt.Fprintf(w, "%14s %10s %10s %8s %14s %14s %9s %8s %10s\n",
      "seqnames", "start", "end", "width", "value", "area", "direction", "cluster", "clusterL"); err != nil {
      return err
    }
  }
  for i := 0; i < r.Length(); i++ {
    if _, err := fmt.Fprintf(w, "%14s %10d %10d %8d %14f %14f %9s %8d %10d\n",
      r.Seqnames[i],
      r.Ranges  [i].Start,
      r.Ranges  [i].End,
      r.Ranges  [i].Width(),
      r.Value   [i],
      r.Area    [i],
      r.Direction[i],
      r.Cluster [i],
      r.ClusterL[i]); err != nil {
      return err
    }
  }
  return nil
}

func (r Regions) ExportTable(filename string, header, compress bool) error {
  var buffer bytes.Buffer

  w := bufio.NewWriter(&buffer)
  if err := r.WriteTable(w, header); err != nil {
    return err
  }
  if err := w.Flush(); err != nil {
    return err
  }
  return writeFile(filename, &buffer, compress)
}

/* -------------------------------------------------------------------------- */

func (r Regions) PrettyPrint(n int) string {
  var buffer bytes.Buffer

  printRow := func(i int) {
    buffer.WriteString(
      fmt.Sprintf("\n%6d %10s %24s %5s | %12f %8d",
        i+1,
        r.Seqnames [i],
        r.Ranges   [i],
        r.Direction[i],
        r.Value    [i],
        r.Cluster  [i]))
  }
  buffer.WriteString(
    fmt.Sprintf("%6s %10s %24s %5s | %12s %8s",
      "", "seqnames", "ranges", "dir", "value", "cluster"))

  if r.Length() <= n+1 {
    for i := 0; i < r.Length(); i++ {
      printRow(i)
    }
  } else {
    for i := 0; i < n/2; i++ {
      printRow(i)
    }
    buffer.WriteString(
      fmt.Sprintf("\n%6s %10s %24s %5s | %12s %8s", "", "...", "...", "", "...", "..."))
    for i := r.Length() - n/2; i < r.Length(); i++ {
      printRow(i)
    }
  }
  return buffer.String()
}

func (r Regions) String() string {
  return r.PrettyPrint(10)
}
