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
	"github.com/lkire/mapd-core/sqltypes"
)

// Decompress returns n itself when it is not dictionary-encoded, and a
// cast to the decompressed type otherwise.
func Decompress(n Node) Node {
	ti := n.TypeInfo()
	if ti.Compression == sqltypes.EncodingNone {
		return n
	}
	ti.Compression = sqltypes.EncodingNone
	ti.CompParam = 0
	return &UOper{exprBase: exprBase{typ: ti, agg: n.ContainsAgg()}, Op: OpCast, Operand: n}
}

// addCastDefault implements the generic AddCast contract: identical
// types and compatible dictionary encodings are no-ops, illegal casts
// fail, and everything else wraps n in a cast node. A transient
// dictionary target is only ever legal on a literal.
func addCastDefault(n Node, ti sqltypes.TypeInfo) (Node, error) {
	cur := n.TypeInfo()
	if ti == cur {
		return n, nil
	}
	if ti.IsString() && cur.IsString() &&
		ti.Compression == sqltypes.EncodingDict && cur.Compression == sqltypes.EncodingDict &&
		(ti.CompParam == cur.CompParam || ti.CompParam == sqltypes.TransientDict(cur.CompParam)) {
		return n, nil
	}
	if !cur.IsCastableTo(ti) {
		return nil, errtype(n, ErrUncastableTypes,
			"cannot CAST from %s to %s", cur.TypeName(), ti.TypeName())
	}
	if _, isLiteral := n.(*Constant); !isLiteral &&
		ti.IsString() && ti.Compression == sqltypes.EncodingDict && ti.CompParam <= sqltypes.TransientDictID {
		if cur.IsString() && cur.Compression != sqltypes.EncodingDict {
			return nil, errtype(n, ErrGroupByNeedsDict,
				"cannot group by string columns which are not dictionary encoded")
		}
		return nil, errtype(n, ErrTransientEncoding,
			"cannot apply transient dictionary encoding to non-literal expression")
	}
	return &UOper{exprBase: exprBase{typ: ti, agg: n.ContainsAgg()}, Op: OpCast, Operand: n}, nil
}

func (c *ColumnVar) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(c, ti) }
func (v *Var) AddCast(ti sqltypes.TypeInfo) (Node, error)       { return addCastDefault(v, ti) }
func (b *BinOper) AddCast(ti sqltypes.TypeInfo) (Node, error)   { return addCastDefault(b, ti) }

func (s *Subquery) AddCast(ti sqltypes.TypeInfo) (Node, error) {
	return nil, errtype(s, ErrUnsupportedSubquery, "cannot cast a subquery")
}

// AddCast on a cast node collapses the redundant decompress-recompress
// pair: casting an already dictionary-encoded string through a
// decompression back to a compatible dictionary resolves to the inner
// operand.
func (u *UOper) AddCast(ti sqltypes.TypeInfo) (Node, error) {
	if u.Op != OpCast {
		return addCastDefault(u, ti)
	}
	if u.typ.IsString() && ti.IsString() &&
		ti.Compression == sqltypes.EncodingDict && u.typ.Compression == sqltypes.EncodingNone {
		oti := u.Operand.TypeInfo()
		if oti.IsString() && oti.Compression == sqltypes.EncodingDict &&
			(oti.CompParam == ti.CompParam || oti.CompParam == sqltypes.TransientDict(ti.CompParam)) {
			return u.Operand, nil
		}
	}
	return addCastDefault(u, ti)
}

// AddCast on a literal folds the conversion into the value. The
// receiver is never mutated; a fresh constant is returned whenever the
// type has to change, so shared references stay intact.
func (c *Constant) AddCast(ti sqltypes.TypeInfo) (Node, error) {
	if ti == c.typ {
		return c, nil
	}
	if c.IsNull {
		// null literals adopt the new type and reset their payload
		return NewNullConstant(ti), nil
	}
	if ti.Compression != c.typ.Compression {
		out := c.Copy().(*Constant)
		if ti.Compression != sqltypes.EncodingNone {
			stripped := ti
			stripped.Compression = sqltypes.EncodingNone
			stripped.CompParam = 0
			if err := out.doCast(stripped); err != nil {
				return nil, err
			}
		}
		return addCastDefault(out, ti)
	}
	out := c.Copy().(*Constant)
	if err := out.doCast(ti); err != nil {
		return nil, err
	}
	return out, nil
}

// doCast converts the literal's payload in place. It only ever runs on
// a freshly copied node.
func (c *Constant) doCast(ti sqltypes.TypeInfo) error {
	cur := c.typ
	switch {
	case ti == cur:
		return nil
	case ti.IsNumber() && (cur.IsNumber() || cur.Kind == sqltypes.Timestamp || cur.Kind == sqltypes.Boolean):
		c.castNumber(ti)
	case ti.IsString() && cur.IsString():
		c.castString(ti)
	case cur.IsString():
		return c.castFromString(ti)
	case ti.IsString():
		c.castToString(ti)
	default:
		return errtype(c, ErrInvalidCast, "invalid cast from %s to %s", cur.TypeName(), ti.TypeName())
	}
	return nil
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// castNumber converts between the numeric family, timestamps read as
// 64-bit seconds and booleans read as 0/1. Narrowing conversions
// truncate the way the engine's fixed-width columns do.
func (c *Constant) castNumber(ti sqltypes.TypeInfo) {
	cur := c.typ

	// load the source value as either an integer or a float
	var iv int64
	var fv float64
	isFloat := false
	switch cur.Kind {
	case sqltypes.SmallInt:
		iv = int64(c.Val.SmallInt)
	case sqltypes.Int:
		iv = int64(c.Val.Int)
	case sqltypes.BigInt:
		iv = c.Val.BigInt
	case sqltypes.Numeric, sqltypes.Decimal:
		iv = c.Val.BigInt // scaled by 10^cur.Scale
	case sqltypes.Float:
		fv, isFloat = float64(c.Val.Float), true
	case sqltypes.Double:
		fv, isFloat = c.Val.Double, true
	case sqltypes.Timestamp:
		iv = c.Val.Time
	case sqltypes.Boolean:
		if c.Val.Bool {
			iv = 1
		}
	default:
		panic("analyzer: castNumber from kind " + cur.Kind.String())
	}

	// decimals drop their scale before any non-decimal target
	if cur.IsDecimal() && !ti.IsDecimal() {
		if ti.Kind == sqltypes.Float || ti.Kind == sqltypes.Double {
			fv, isFloat = float64(iv)/float64(pow10(cur.Scale)), true
		} else {
			iv /= pow10(cur.Scale)
		}
	}

	var out sqltypes.Datum
	switch ti.Kind {
	case sqltypes.SmallInt:
		if isFloat {
			out.SmallInt = int16(fv)
		} else {
			out.SmallInt = int16(iv)
		}
	case sqltypes.Int:
		if isFloat {
			out.Int = int32(fv)
		} else {
			out.Int = int32(iv)
		}
	case sqltypes.BigInt:
		if isFloat {
			out.BigInt = int64(fv)
		} else {
			out.BigInt = iv
		}
	case sqltypes.Float:
		if isFloat {
			out.Float = float32(fv)
		} else {
			out.Float = float32(iv)
		}
	case sqltypes.Double:
		if isFloat {
			out.Double = fv
		} else {
			out.Double = float64(iv)
		}
	case sqltypes.Numeric, sqltypes.Decimal:
		switch {
		case cur.IsDecimal():
			// shift by the scale delta
			switch {
			case ti.Scale > cur.Scale:
				out.BigInt = iv * pow10(ti.Scale-cur.Scale)
			case ti.Scale < cur.Scale:
				out.BigInt = iv / pow10(cur.Scale-ti.Scale)
			default:
				out.BigInt = iv
			}
		case isFloat:
			out.BigInt = int64(fv * float64(pow10(ti.Scale)))
		default:
			out.BigInt = iv * pow10(ti.Scale)
		}
	default:
		panic("analyzer: castNumber to kind " + ti.Kind.String())
	}
	c.Val = out
	c.typ = ti
}

// castString truncates a string literal that no longer fits the
// bounded target length.
func (c *Constant) castString(ti sqltypes.TypeInfo) {
	s := c.Val.Str
	if ti.Kind != sqltypes.Text && len(s) > ti.Dimension {
		c.Val.Str = s[:ti.Dimension]
	}
	c.typ = ti
}

func (c *Constant) castFromString(ti sqltypes.TypeInfo) error {
	d, err := sqltypes.StringToDatum(c.Val.Str, ti)
	if err != nil {
		return errtype(c, ErrInvalidCast, "%s", err)
	}
	c.Val = d
	c.typ = ti
	return nil
}

func (c *Constant) castToString(ti sqltypes.TypeInfo) {
	s := sqltypes.DatumToString(c.Val, c.typ)
	if ti.Kind != sqltypes.Text && len(s) > ti.Dimension {
		s = s[:ti.Dimension]
	}
	c.Val = sqltypes.Datum{Str: s}
	c.typ = ti
}
