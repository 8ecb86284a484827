/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package data

import (
	"bufio"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// splitEntries splits a textual row into its integer entries. Entries
// may be separated by any mix of whitespace and commas.
func splitEntries(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\r'
	})
}

func parseRow(line string) (Vector, error) {
	fields := splitEntries(line)
	row := make(Vector, len(fields))
	for i, f := range fields {
		v, ok := new(big.Int).SetString(f, 10)
		if !ok {
			return nil, errors.Errorf("cannot parse integer %q", f)
		}
		row[i] = v
	}

	return row, nil
}

// ReadVector reads a vector of integers from r. Entries are separated
// by whitespace or commas and may span multiple lines; blank lines are
// ignored.
func ReadVector(r io.Reader) (Vector, error) {
	vec := Vector{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row, err := parseRow(scanner.Text())
		if err != nil {
			return nil, err
		}
		vec = append(vec, row...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read vector")
	}

	return vec, nil
}

// ReadMatrix reads a matrix of integers from r, one row per line, with
// entries separated by whitespace or commas. Blank lines are ignored.
// All rows must have the same number of entries.
func ReadMatrix(r io.Reader) (Matrix, error) {
	rows := []Vector{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row, err := parseRow(scanner.Text())
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read matrix")
	}

	return NewMatrix(rows)
}
