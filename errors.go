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

// A ConfigurationError is returned before any chromosome is processed if
// the arguments of a call are invalid. No partial results exist when this
// error is returned.
type ConfigurationError struct {
  Field string
  Msg   string
}

func newConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
  return &ConfigurationError{field, fmt.Sprintf(format, args...)}
}

func (err *ConfigurationError) Error() string {
  if err.Field == "" {
    return fmt.Sprintf("invalid configuration: %s", err.Msg)
  }
  return fmt.Sprintf("invalid configuration `%s': %s", err.Field, err.Msg)
}

/* -------------------------------------------------------------------------- */

// A DataShapeError signals inconsistent input data, e.g. samples with
// different sequence lengths or regions that do not fit the coverage
// track they were derived from.
type DataShapeError struct {
  Msg string
}

func newDataShapeError(format string, args ...interface{}) *DataShapeError {
  return &DataShapeError{fmt.Sprintf(format, args...)}
}

func (err *DataShapeError) Error() string {
  return err.Msg
}

/* -------------------------------------------------------------------------- */

// ChromosomeError wraps the failure of a single chromosome pipeline.
type ChromosomeError struct {
  Seqname string
  Err     error
}

func (err *ChromosomeError) Error() string {
  return fmt.Sprintf("processing sequence `%s' failed: %v", err.Seqname, err.Err)
}

func (err *ChromosomeError) Unwrap() error {
  return err.Err
}
