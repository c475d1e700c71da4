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

// Package sqltypes describes the value types of the SQL engine:
// the type descriptor attached to every expression node, the numeric
// and string promotion lattice, and the literal payloads (datums)
// carried by constants.
package sqltypes

import (
	"fmt"
)

// Kind is the basic SQL type tag.
type Kind int

const (
	NullType Kind = iota // type of the bare NULL literal
	Boolean
	Char
	Varchar
	Numeric
	Decimal
	Int
	SmallInt
	Float
	Double
	Time
	Timestamp
	BigInt
	Text
	Date
)

func (k Kind) String() string {
	switch k {
	case NullType:
		return "NULL"
	case Boolean:
		return "BOOLEAN"
	case Char:
		return "CHAR"
	case Varchar:
		return "VARCHAR"
	case Numeric:
		return "NUMERIC"
	case Decimal:
		return "DECIMAL"
	case Int:
		return "INT"
	case SmallInt:
		return "SMALLINT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case BigInt:
		return "BIGINT"
	case Text:
		return "TEXT"
	case Date:
		return "DATE"
	default:
		return "INVALID"
	}
}

// KindOf maps a SQL type name to its Kind.
func KindOf(name string) (Kind, bool) {
	for k := NullType; k <= Date; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Encoding is the physical compression of a column or literal.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingDict          // strings stored as integer ids into a dictionary
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "NONE"
	case EncodingDict:
		return "DICT"
	default:
		return "INVALID"
	}
}

// TransientDictID is the id of the per-query negotiation dictionary.
// Dictionary ids at or below it never name a persistent dictionary.
const TransientDictID = -1

// TransientDict maps a dictionary id to its transient counterpart.
// The mapping is its own inverse.
func TransientDict(id int) int {
	return -id - 2
}

// TypeInfo is the full type descriptor of an expression or column.
// It is a comparable value; == is field-wise equality.
type TypeInfo struct {
	Kind        Kind
	Dimension   int // total digits for numerics, max characters for strings
	Scale       int
	NotNull     bool
	Compression Encoding
	CompParam   int // dictionary id when Compression is EncodingDict
}

// Of is the short constructor for types without dimension or scale.
func Of(k Kind, notnull bool) TypeInfo {
	return TypeInfo{Kind: k, NotNull: notnull}
}

// Make constructs a fully-specified TypeInfo.
func Make(k Kind, dim, scale int, notnull bool, comp Encoding, param int) TypeInfo {
	return TypeInfo{
		Kind:        k,
		Dimension:   dim,
		Scale:       scale,
		NotNull:     notnull,
		Compression: comp,
		CompParam:   param,
	}
}

func (ti TypeInfo) IsNumber() bool {
	switch ti.Kind {
	case SmallInt, Int, BigInt, Float, Double, Numeric, Decimal:
		return true
	}
	return false
}

func (ti TypeInfo) IsInteger() bool {
	switch ti.Kind {
	case SmallInt, Int, BigInt:
		return true
	}
	return false
}

func (ti TypeInfo) IsString() bool {
	switch ti.Kind {
	case Char, Varchar, Text:
		return true
	}
	return false
}

func (ti TypeInfo) IsTime() bool {
	switch ti.Kind {
	case Time, Timestamp, Date:
		return true
	}
	return false
}

func (ti TypeInfo) IsDecimal() bool {
	return ti.Kind == Numeric || ti.Kind == Decimal
}

// Size returns the fixed byte width of a value of this type,
// or -1 for variable-length values.
func (ti TypeInfo) Size() int {
	switch ti.Kind {
	case Boolean:
		return 1
	case SmallInt:
		return 2
	case Int, Float:
		return 4
	case BigInt, Double, Numeric, Decimal:
		return 8
	case Time, Timestamp, Date:
		return 8
	case Char, Varchar, Text:
		if ti.Compression == EncodingDict {
			return 4 // dictionary index
		}
		return -1
	default:
		return -1
	}
}

// TypeName renders the user-facing name of the type,
// including dimension and scale where they apply.
func (ti TypeInfo) TypeName() string {
	switch {
	case ti.IsDecimal():
		return fmt.Sprintf("%s(%d,%d)", ti.Kind, ti.Dimension, ti.Scale)
	case ti.Kind == Char || ti.Kind == Varchar:
		return fmt.Sprintf("%s(%d)", ti.Kind, ti.Dimension)
	case ti.Kind == Time || ti.Kind == Timestamp:
		return fmt.Sprintf("%s(%d)", ti.Kind, ti.Dimension)
	default:
		return ti.Kind.String()
	}
}

// CompressionName renders the encoding with its parameter, e.g. DICT(3).
func (ti TypeInfo) CompressionName() string {
	return fmt.Sprintf("%s(%d)", ti.Compression, ti.CompParam)
}
