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

// Range of genomic positions. Positions are 1-based and both end points
// are included, i.e. a range covers [Start, End].
type Range struct {
  Start, End int
}

/* constructors
 * -------------------------------------------------------------------------- */

func NewRange(start, end int) Range {
  if start > end {
    panic("NewRange(): start > end")
  }
  return Range{start, end}
}

/* -------------------------------------------------------------------------- */

// Number of bases covered by the range.
func (r Range) Width() int {
  return r.End - r.Start + 1
}

// Number of bases between r and s that are covered by neither range. The
// result is negative if both ranges overlap.
func (r Range) Gap(s Range) int {
  return iMax(r.Start, s.Start) - iMin(r.End, s.End) - 1
}

func (r Range) Overlaps(s Range) bool {
  return r.Start <= s.End && s.Start <= r.End
}

/* -------------------------------------------------------------------------- */

func (r Range) String() string {
  return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}
