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

package sqltypes

// CommonNumericType computes the promoted type of a numeric operator
// applied to operands of types a and b. The result is symmetric in its
// arguments and always nullable; callers thread notnull separately.
func CommonNumericType(a, b TypeInfo) TypeInfo {
	if !a.IsNumber() || !b.IsNumber() {
		panic("sqltypes: CommonNumericType on non-numeric operands")
	}
	if a.Kind == b.Kind {
		return Make(a.Kind, max(a.Dimension, b.Dimension), max(a.Scale, b.Scale), false, EncodingNone, 0)
	}
	// Mixed decimal pairs promote to the NUMERIC spelling.
	switch a.Kind {
	case SmallInt:
		switch b.Kind {
		case Int:
			return Of(Int, false)
		case BigInt:
			return Of(BigInt, false)
		case Float:
			return Of(Float, false)
		case Double:
			return Of(Double, false)
		case Numeric, Decimal:
			return Make(Numeric, max(5+b.Scale, b.Dimension), b.Scale, false, EncodingNone, 0)
		}
	case Int:
		switch b.Kind {
		case SmallInt:
			return Of(Int, false)
		case BigInt:
			return Of(BigInt, false)
		case Float:
			return Of(Float, false)
		case Double:
			return Of(Double, false)
		case Numeric, Decimal:
			return Make(Numeric, max(min(19, 10+b.Scale), b.Dimension), b.Scale, false, EncodingNone, 0)
		}
	case BigInt:
		switch b.Kind {
		case SmallInt, Int:
			return Of(BigInt, false)
		case Float:
			return Of(Float, false)
		case Double:
			return Of(Double, false)
		case Numeric, Decimal:
			return Make(Numeric, 19, b.Scale, false, EncodingNone, 0)
		}
	case Float:
		switch b.Kind {
		case SmallInt, Int, BigInt, Numeric, Decimal:
			return Of(Float, false)
		case Double:
			return Of(Double, false)
		}
	case Double:
		switch b.Kind {
		case SmallInt, Int, BigInt, Float, Numeric, Decimal:
			return Of(Double, false)
		}
	case Numeric, Decimal:
		switch b.Kind {
		case SmallInt:
			return Make(Numeric, max(5+a.Scale, a.Dimension), a.Scale, false, EncodingNone, 0)
		case Int:
			return Make(Numeric, max(min(19, 10+a.Scale), a.Dimension), a.Scale, false, EncodingNone, 0)
		case BigInt:
			return Make(Numeric, 19, a.Scale, false, EncodingNone, 0)
		case Float:
			return Of(Float, false)
		case Double:
			return Of(Double, false)
		case Numeric, Decimal:
			scale := max(a.Scale, b.Scale)
			intdigits := max(a.Dimension-a.Scale, b.Dimension-b.Scale)
			return Make(Numeric, intdigits+scale, scale, false, EncodingNone, 0)
		}
	}
	panic("sqltypes: unreachable numeric pair")
}

// CommonStringType computes the type two string operands share,
// negotiating dictionary encodings: two columns keep a dictionary only
// when their ids match or are transient-related; one dictionary side
// donates its id but the result is decompressed.
func CommonStringType(a, b TypeInfo) TypeInfo {
	if !a.IsString() || !b.IsString() {
		panic("sqltypes: CommonStringType on non-string operands")
	}
	comp := EncodingNone
	param := 0
	switch {
	case a.Compression == EncodingDict && b.Compression == EncodingDict:
		if a.CompParam == b.CompParam || a.CompParam == TransientDict(b.CompParam) {
			comp = EncodingDict
			param = min(a.CompParam, b.CompParam)
		} else {
			// unrelated dictionaries decompress; remember the larger id
			param = max(a.CompParam, b.CompParam)
		}
	case a.Compression == EncodingDict:
		param = a.CompParam
	case b.Compression == EncodingDict:
		param = b.CompParam
	default:
		// preserve a previous comp param if either side carries one
		param = max(a.CompParam, b.CompParam)
	}
	if a.Kind == Text || b.Kind == Text {
		return Make(Text, 0, 0, false, comp, param)
	}
	return Make(Varchar, max(a.Dimension, b.Dimension), 0, false, comp, param)
}

// TemporalOperandType resolves the operand type of a comparison
// between two temporal values, or reports that the pair is not
// comparable. The returned type carries no notnull; callers thread it.
func TemporalOperandType(l, r TypeInfo) (TypeInfo, bool) {
	switch l.Kind {
	case Timestamp:
		switch r.Kind {
		case Timestamp:
			return Make(Timestamp, max(l.Dimension, r.Dimension), 0, false, EncodingNone, 0), true
		case Date:
			return Make(Timestamp, l.Dimension, 0, false, EncodingNone, 0), true
		}
	case Date:
		switch r.Kind {
		case Timestamp:
			return Make(Timestamp, r.Dimension, 0, false, EncodingNone, 0), true
		case Date:
			return Make(Date, l.Dimension, 0, false, EncodingNone, 0), true
		}
	case Time:
		if r.Kind == Time {
			return Make(Time, max(l.Dimension, r.Dimension), 0, false, EncodingNone, 0), true
		}
	}
	return TypeInfo{}, false
}

// IsCastableTo reports whether a CAST from ti to the target type is
// legal at all. It says nothing about whether a particular value
// survives the conversion.
func (ti TypeInfo) IsCastableTo(to TypeInfo) bool {
	switch {
	case ti == to:
		return true
	case ti.IsNumber() && to.IsNumber():
		return true
	case ti.IsNumber() && to.Kind == Boolean, ti.Kind == Boolean && to.IsNumber():
		return true
	case ti.IsNumber() && to.Kind == Timestamp, ti.Kind == Timestamp && to.IsNumber():
		return true
	case ti.IsString() && to.IsString():
		return true
	case ti.IsString() || to.IsString():
		// literals parse from and render to strings
		return true
	case ti.IsTime() && to.IsTime():
		_, ok := TemporalOperandType(ti, to)
		return ok
	default:
		return false
	}
}
