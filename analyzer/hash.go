// Copyright (C) 2022 MapD Technologies, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package analyzer

import (
	"github.com/dchest/siphash"
)

// Fixed keys so fingerprints are stable across processes.
const (
	fpKey0 = 0x5ad1f8c1e9f5a3d7
	fpKey1 = 0x83fa12c9b6e04d2b
)

// Fingerprint returns a 64-bit fingerprint of e's printed form, so the
// planner can use it to key caches without holding the tree. Trees
// that print identically, such as an expression and its deep copy,
// produce the same fingerprint. Nodes that Equals treats as equal but
// that print differently (a ColumnVar and a Var naming the same
// column) produce different fingerprints.
func Fingerprint(e Node) uint64 {
	return siphash.Hash(fpKey0, fpKey1, []byte(ToString(e)))
}

// CacheKey fingerprints the whole query block, including its set-op
// chain; the plan cache is keyed on it. Literal values participate,
// so two queries differing only in constants key differently.
func (q *Query) CacheKey() uint64 {
	return siphash.Hash(fpKey0, fpKey1, []byte(ToString(q)))
}
