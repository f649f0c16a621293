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
import "io"
import "os"
import "sort"

import "github.com/klauspost/compress/gzip"

/* -------------------------------------------------------------------------- */

func iMin(a, b int) int {
  if a < b {
    return a
  } else {
    return b
  }
}

func iMax(a, b int) int {
  if a > b {
    return a
  } else {
    return b
  }
}

/* -------------------------------------------------------------------------- */

func isStrictlyIncreasing(x []int) bool {
  for i := 1; i < len(x); i++ {
    if x[i] <= x[i-1] {
      return false
    }
  }
  return true
}

func sortedKeys(m map[string]ChromosomeCoverage) []string {
  r := make([]string, 0, len(m))
  for key := range m {
    r = append(r, key)
  }
  sort.Strings(r)
  return r
}

func equalStrings(a, b []string) bool {
  if len(a) != len(b) {
    return false
  }
  for i := range a {
    if a[i] != b[i] {
      return false
    }
  }
  return true
}

/* -------------------------------------------------------------------------- */

// Wrap reader r into a gzip reader if the stream starts with the gzip
// magic number.
func newGzipReader(r io.Reader) (io.Reader, func() error, error) {
  b := bufio.NewReader(r)
  if magic, err := b.Peek(2); err == nil && magic[0] == 31 && magic[1] == 139 {
    g, err := gzip.NewReader(b)
    if err != nil {
      return nil, nil, err
    }
    return g, g.Close, nil
  }
  return b, func() error { return nil }, nil
}

func writeFile(filename string, r io.Reader, compress bool) error {
  var buffer bytes.Buffer

  if compress {
    w := gzip.NewWriter(&buffer)
    if _, err := io.Copy(w, r); err != nil {
      return err
    }
    if err := w.Close(); err != nil {
      return err
    }
  } else {
    if _, err := io.Copy(&buffer, r); err != nil {
      return err
    }
  }
  return os.WriteFile(filename, buffer.Bytes(), 0666)
}
