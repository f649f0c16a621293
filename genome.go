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
import "database/sql"
import "fmt"
import "io"
import "os"
import "strconv"
import "strings"

import _ "github.com/go-sql-driver/mysql"

/* -------------------------------------------------------------------------- */

// Structure containing chromosome sizes.
type Genome struct {
  Seqnames []string
  Lengths  []int
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewGenome(seqnames []string, lengths []int) Genome {
  if len(seqnames) != len(lengths) {
    panic("NewGenome(): invalid parameters")
  }
  return Genome{seqnames, lengths}
}

/* -------------------------------------------------------------------------- */

// Number of chromosomes in the structure.
func (genome Genome) Length() int {
  return len(genome.Seqnames)
}

// Length of the given chromosome. Returns an error if the chromosome
// is not found.
func (genome Genome) SeqLength(seqname string) (int, error) {
  for i, s := range genome.Seqnames {
    if seqname == s {
      return genome.Lengths[i], nil
    }
  }
  return 0, fmt.Errorf("sequence `%s' not found in genome", seqname)
}

/* convert to string
 * -------------------------------------------------------------------------- */

func (genome Genome) String() string {
  var buffer bytes.Buffer

  buffer.WriteString(
    fmt.Sprintf("%10s %10s", "seqnames", "lengths"))

  for i := 0; i < genome.Length(); i++ {
    buffer.WriteString(
      fmt.Sprintf("\n%10s %10d", genome.Seqnames[i], genome.Lengths[i]))
  }
  return buffer.String()
}

/* i/o
 * -------------------------------------------------------------------------- */

// Read chromosome sizes from a UCSC text file. The format is a whitespace
// separated table where the first column is the name of the chromosome and
// the second column the chromosome length.
func (genome *Genome) Read(r io.Reader) error {
  seqnames := []string{}
  lengths  := []int{}

  scanner := bufio.NewScanner(r)
  for i := 1; scanner.Scan(); i++ {
    fields := strings.Fields(scanner.Text())
    if len(fields) == 0 {
      continue
    }
    if len(fields) < 2 {
      return fmt.Errorf("invalid genome file at line `%d'", i)
    }
    t, err := strconv.ParseInt(fields[1], 10, 64)
    if err != nil {
      return fmt.Errorf("parsing length at line `%d' failed: %v", i, err)
    }
    seqnames = append(seqnames, fields[0])
    lengths  = append(lengths,  int(t))
  }
  if err := scanner.Err(); err != nil {
    return err
  }
  *genome = NewGenome(seqnames, lengths)
  return nil
}

func (genome *Genome) Import(filename string) error {
  f, err := os.Open(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  r, closer, err := newGzipReader(f)
  if err != nil {
    return err
  }
  defer closer()

  return genome.Read(r)
}

// Import chromosome sizes from the UCSC MySQL server, i.e. the chromInfo
// table of the given assembly (e.g. hg19).
func (genome *Genome) ImportFromUCSC(assembly string) error {
  var i_seqname string
  var i_length  int

  seqnames := []string{}
  lengths  := []int{}

  db, err := sql.Open("mysql",
    fmt.Sprintf("genome@tcp(genome-mysql.soe.ucsc.edu:3306)/%s", assembly))
  if err != nil {
    return err
  }
  defer db.Close()

  if err := db.Ping(); err != nil {
    return err
  }
  rows, err := db.Query("SELECT chrom, size FROM chromInfo")
  if err != nil {
    return err
  }
  defer rows.Close()

  for rows.Next() {
    if err := rows.Scan(&i_seqname, &i_length); err != nil {
      return err
    }
    seqnames = append(seqnames, i_seqname)
    lengths  = append(lengths,  i_length)
  }
  if err := rows.Err(); err != nil {
    return err
  }
  *genome = NewGenome(seqnames, lengths)
  return nil
}
