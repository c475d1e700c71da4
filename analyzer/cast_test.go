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
	"errors"
	"testing"

	"github.com/lkire/mapd-core/sqltypes"
)

func decimalType(dim, scale int) sqltypes.TypeInfo {
	return sqltypes.Make(sqltypes.Numeric, dim, scale, true, sqltypes.EncodingNone, 0)
}

func varcharType(dim int) sqltypes.TypeInfo {
	return sqltypes.Make(sqltypes.Varchar, dim, 0, true, sqltypes.EncodingNone, 0)
}

func dictVarcharType(dim, dict int) sqltypes.TypeInfo {
	return sqltypes.Make(sqltypes.Varchar, dim, 0, false, sqltypes.EncodingDict, dict)
}

func TestAddCastIdempotent(t *testing.T) {
	col := intCol(1, 2, 0)
	got, err := col.AddCast(col.TypeInfo())
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(col) {
		t.Fatal("casting to the same type must return the node itself")
	}

	lit := IntLiteral(7)
	got, err = lit.AddCast(lit.TypeInfo())
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(lit) {
		t.Fatal("casting a literal to its own type must return it unchanged")
	}
}

func TestConstantCastNumeric(t *testing.T) {
	// INT -> NUMERIC(10,2) scales the payload
	c, err := IntLiteral(7).AddCast(decimalType(10, 2))
	if err != nil {
		t.Fatal(err)
	}
	cc := c.(*Constant)
	if cc.Val.BigInt != 700 {
		t.Fatalf("got %d, want 700", cc.Val.BigInt)
	}
	if cc.TypeInfo() != decimalType(10, 2) {
		t.Fatalf("wrong type %s", cc.TypeInfo().TypeName())
	}

	// ... and back down without loss
	back, err := cc.AddCast(sqltypes.Of(sqltypes.Int, true))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equals(IntLiteral(7)) {
		t.Fatalf("cast did not round-trip: %s", ToString(back))
	}

	// scale shift between decimals
	d, err := cc.AddCast(decimalType(12, 4))
	if err != nil {
		t.Fatal(err)
	}
	if d.(*Constant).Val.BigInt != 70000 {
		t.Fatalf("got %d, want 70000", d.(*Constant).Val.BigInt)
	}

	// DOUBLE -> INT truncates
	i, err := DoubleLiteral(3.9).AddCast(sqltypes.Of(sqltypes.Int, true))
	if err != nil {
		t.Fatal(err)
	}
	if i.(*Constant).Val.Int != 3 {
		t.Fatalf("got %d, want 3", i.(*Constant).Val.Int)
	}

	// BOOLEAN -> INT is 0/1
	b, err := BoolLiteral(true).AddCast(sqltypes.Of(sqltypes.Int, true))
	if err != nil {
		t.Fatal(err)
	}
	if b.(*Constant).Val.Int != 1 {
		t.Fatalf("got %d, want 1", b.(*Constant).Val.Int)
	}
}

func TestConstantCastDoesNotMutate(t *testing.T) {
	lit := IntLiteral(7)
	if _, err := lit.AddCast(decimalType(10, 2)); err != nil {
		t.Fatal(err)
	}
	if lit.Val.Int != 7 || lit.TypeInfo().Kind != sqltypes.Int {
		t.Fatal("AddCast mutated the shared literal")
	}
}

func TestConstantCastString(t *testing.T) {
	// truncation to the bounded target length
	lit := NewConstant(varcharType(11), sqltypes.Datum{Str: "hello world"})
	got, err := lit.AddCast(varcharType(5))
	if err != nil {
		t.Fatal(err)
	}
	if got.(*Constant).Val.Str != "hello" {
		t.Fatalf("got %q, want %q", got.(*Constant).Val.Str, "hello")
	}

	// TEXT is unbounded
	text := sqltypes.Make(sqltypes.Text, 0, 0, true, sqltypes.EncodingNone, 0)
	got, err = lit.AddCast(text)
	if err != nil {
		t.Fatal(err)
	}
	if got.(*Constant).Val.Str != "hello world" {
		t.Fatalf("TEXT cast truncated: %q", got.(*Constant).Val.Str)
	}

	// string -> number parses
	n, err := StringLiteral("123.45").AddCast(decimalType(10, 2))
	if err != nil {
		t.Fatal(err)
	}
	if n.(*Constant).Val.BigInt != 12345 {
		t.Fatalf("got %d, want 12345", n.(*Constant).Val.BigInt)
	}

	// number -> string renders
	s, err := IntLiteral(42).AddCast(varcharType(10))
	if err != nil {
		t.Fatal(err)
	}
	if s.(*Constant).Val.Str != "42" {
		t.Fatalf("got %q, want %q", s.(*Constant).Val.Str, "42")
	}

	// unparsable literal fails
	if _, err := StringLiteral("wat").AddCast(decimalType(10, 2)); !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("got %v, want ErrInvalidCast", err)
	}
}

func TestNullConstantAdoptsType(t *testing.T) {
	null := NewNullConstant(sqltypes.Of(sqltypes.Int, false))
	got, err := null.AddCast(sqltypes.Of(sqltypes.Double, false))
	if err != nil {
		t.Fatal(err)
	}
	c := got.(*Constant)
	if !c.IsNull {
		t.Fatal("null literal lost its nullness")
	}
	if c.TypeInfo().Kind != sqltypes.Double {
		t.Fatal("null literal did not adopt the new type")
	}
	if c.Val.Double != sqltypes.NullDouble {
		t.Fatal("payload is not the DOUBLE sentinel")
	}
}

func TestDictCompatibleCastIsNoop(t *testing.T) {
	col := dictStrCol(1, 3, 0, 20, 3)
	// identical dictionary
	got, err := col.AddCast(dictVarcharType(20, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(col) {
		t.Fatal("same dictionary must be a no-op")
	}
	// transient-related dictionary
	got, err = col.AddCast(dictVarcharType(20, sqltypes.TransientDict(3)))
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(col) {
		t.Fatal("transient-related dictionary must be a no-op")
	}
}

func TestTransientDictRestrictions(t *testing.T) {
	// a plain string column cannot be grouped without a dictionary
	_, err := strCol(1, 3, 0, 20).AddCast(dictVarcharType(20, sqltypes.TransientDictID))
	if !errors.Is(err, ErrGroupByNeedsDict) {
		t.Fatalf("got %v, want ErrGroupByNeedsDict", err)
	}
	// a dict-encoded column cannot take a transient encoding
	_, err = dictStrCol(1, 3, 0, 20, 3).AddCast(dictVarcharType(20, sqltypes.TransientDict(7)))
	if !errors.Is(err, ErrTransientEncoding) {
		t.Fatalf("got %v, want ErrTransientEncoding", err)
	}
	// a literal may take a transient encoding
	lit := StringLiteral("x")
	got, err := lit.AddCast(dictVarcharType(1, sqltypes.TransientDictID))
	if err != nil {
		t.Fatal(err)
	}
	u, ok := got.(*UOper)
	if !ok || u.Op != OpCast {
		t.Fatalf("expected a cast wrapper, got %s", ToString(got))
	}
}

func TestRedundantDictCastCollapses(t *testing.T) {
	col := dictStrCol(1, 3, 0, 20, 3)
	dec := Decompress(col)
	u, ok := dec.(*UOper)
	if !ok || u.Op != OpCast {
		t.Fatalf("Decompress must wrap in a cast, got %s", ToString(dec))
	}
	if u.TypeInfo().Compression != sqltypes.EncodingNone {
		t.Fatal("Decompress kept the encoding")
	}
	// re-encoding to the same (or transient-related) dictionary
	// resolves to the inner operand
	got, err := dec.AddCast(dictVarcharType(20, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(col) {
		t.Fatalf("expected the inner operand back, got %s", ToString(got))
	}
	got, err = dec.AddCast(dictVarcharType(20, sqltypes.TransientDict(3)))
	if err != nil {
		t.Fatal(err)
	}
	if got != Node(col) {
		t.Fatalf("expected the inner operand back, got %s", ToString(got))
	}
}

func TestDecompressPlain(t *testing.T) {
	col := strCol(1, 3, 0, 20)
	if Decompress(col) != Node(col) {
		t.Fatal("decompressing an unencoded node must return it")
	}
}

func TestUncastable(t *testing.T) {
	_, err := timeCol(1, 6, 0).AddCast(sqltypes.Of(sqltypes.Boolean, false))
	if !errors.Is(err, ErrUncastableTypes) {
		t.Fatalf("got %v, want ErrUncastableTypes", err)
	}
	_, err = NewSubquery(sqltypes.Of(sqltypes.Boolean, false), NewQuery()).
		AddCast(sqltypes.Of(sqltypes.Boolean, false))
	if !errors.Is(err, ErrUnsupportedSubquery) {
		t.Fatalf("got %v, want ErrUnsupportedSubquery", err)
	}
}

func TestCastWrapsNonLiterals(t *testing.T) {
	col := intCol(1, 2, 0)
	got, err := col.AddCast(sqltypes.Of(sqltypes.Double, false))
	if err != nil {
		t.Fatal(err)
	}
	u, ok := got.(*UOper)
	if !ok || u.Op != OpCast || u.Operand != Node(col) {
		t.Fatalf("expected cast wrapper around the column, got %s", ToString(got))
	}
	if u.TypeInfo().Kind != sqltypes.Double {
		t.Fatal("wrapper carries the wrong type")
	}
}

func TestConstantCastToDictEncoding(t *testing.T) {
	// a literal cast into a dictionary does the value conversion first
	// and wraps the encoding change
	lit := NewConstant(varcharType(11), sqltypes.Datum{Str: "hello world"})
	got, err := lit.AddCast(dictVarcharType(5, 3))
	if err != nil {
		t.Fatal(err)
	}
	u, ok := got.(*UOper)
	if !ok || u.Op != OpCast {
		t.Fatalf("expected cast wrapper, got %s", ToString(got))
	}
	inner, ok := u.Operand.(*Constant)
	if !ok {
		t.Fatalf("expected literal operand, got %s", ToString(u.Operand))
	}
	if inner.Val.Str != "hello" {
		t.Fatalf("value cast did not run first: %q", inner.Val.Str)
	}
	if u.TypeInfo() != dictVarcharType(5, 3) {
		t.Fatal("wrapper carries the wrong type")
	}
}
