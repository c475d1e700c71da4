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

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Datum is a single literal value. Which field is live is decided by
// the Kind of the TypeInfo the datum travels with; NUMERIC and DECIMAL
// values live in BigInt scaled by 10^scale. The string payload is
// owned by the datum.
type Datum struct {
	Bool     bool
	SmallInt int16
	Int      int32
	BigInt   int64
	Float    float32
	Double   float64
	Time     int64 // seconds since the unix epoch
	Str      string
}

// Null sentinels. These are the historical in-band representations;
// the nullness of a literal is carried by its node, not its payload.
const (
	NullSmallInt = math.MinInt16
	NullInt      = math.MinInt32
	NullBigInt   = math.MinInt64
)

var (
	NullFloat  = float32(-math.MaxFloat32)
	NullDouble = -math.MaxFloat64
)

// NullValue returns the kind-specific null sentinel datum.
func NullValue(k Kind) Datum {
	switch k {
	case Boolean:
		return Datum{Bool: false}
	case SmallInt:
		return Datum{SmallInt: NullSmallInt}
	case Int:
		return Datum{Int: NullInt}
	case BigInt, Numeric, Decimal:
		return Datum{BigInt: NullBigInt}
	case Float:
		return Datum{Float: NullFloat}
	case Double:
		return Datum{Double: NullDouble}
	case Time, Timestamp, Date:
		return Datum{Time: NullBigInt}
	case Char, Varchar, Text:
		return Datum{Str: ""}
	case NullType:
		return Datum{}
	default:
		panic("sqltypes: no null value for kind " + k.String())
	}
}

// DatumEqual compares two datums of the same type field-wise.
func DatumEqual(ti TypeInfo, a, b Datum) bool {
	switch ti.Kind {
	case Boolean:
		return a.Bool == b.Bool
	case Char, Varchar, Text:
		return a.Str == b.Str
	case Numeric, Decimal, BigInt:
		return a.BigInt == b.BigInt
	case Int:
		return a.Int == b.Int
	case SmallInt:
		return a.SmallInt == b.SmallInt
	case Float:
		return a.Float == b.Float
	case Double:
		return a.Double == b.Double
	case Time, Timestamp, Date:
		return a.Time == b.Time
	case NullType:
		return true
	default:
		panic("sqltypes: datum comparison on kind " + ti.Kind.String())
	}
}

const (
	timeLayout      = "15:04:05"
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

var decimalCtx = apd.BaseContext.WithPrecision(38)

// StringToDatum parses a literal into a datum of the given type.
func StringToDatum(s string, ti TypeInfo) (Datum, error) {
	switch ti.Kind {
	case Boolean:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return Datum{}, fmt.Errorf("invalid BOOLEAN literal %q", s)
		}
		return Datum{Bool: b}, nil
	case SmallInt:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 16)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid SMALLINT literal %q", s)
		}
		return Datum{SmallInt: int16(v)}, nil
	case Int:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid INT literal %q", s)
		}
		return Datum{Int: int32(v)}, nil
	case BigInt:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid BIGINT literal %q", s)
		}
		return Datum{BigInt: v}, nil
	case Numeric, Decimal:
		v, err := parseDecimal(strings.TrimSpace(s), ti.Scale)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid %s literal %q", ti.TypeName(), s)
		}
		return Datum{BigInt: v}, nil
	case Float:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid FLOAT literal %q", s)
		}
		return Datum{Float: float32(v)}, nil
	case Double:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Datum{}, fmt.Errorf("invalid DOUBLE literal %q", s)
		}
		return Datum{Double: v}, nil
	case Time:
		t, err := time.Parse(timeLayout, strings.TrimSpace(s))
		if err != nil {
			return Datum{}, fmt.Errorf("invalid TIME literal %q", s)
		}
		secs := int64(t.Hour()*3600 + t.Minute()*60 + t.Second())
		return Datum{Time: secs}, nil
	case Date:
		t, err := time.Parse(dateLayout, strings.TrimSpace(s))
		if err != nil {
			return Datum{}, fmt.Errorf("invalid DATE literal %q", s)
		}
		return Datum{Time: t.Unix()}, nil
	case Timestamp:
		t, err := time.Parse(timestampLayout, strings.TrimSpace(s))
		if err != nil {
			// a bare date is an acceptable timestamp literal
			t, err = time.Parse(dateLayout, strings.TrimSpace(s))
			if err != nil {
				return Datum{}, fmt.Errorf("invalid TIMESTAMP literal %q", s)
			}
		}
		return Datum{Time: t.Unix()}, nil
	case Char, Varchar, Text:
		return Datum{Str: s}, nil
	default:
		return Datum{}, fmt.Errorf("cannot parse literal of type %s", ti.TypeName())
	}
}

// parseDecimal parses a decimal literal into an integer scaled by
// 10^scale, rounding half-up the way the engine's fixed-point columns do.
func parseDecimal(s string, scale int) (int64, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return 0, err
	}
	var q apd.Decimal
	if _, err := decimalCtx.Quantize(&q, d, int32(-scale)); err != nil {
		return 0, err
	}
	if q.Form != apd.Finite || !q.Coeff.IsInt64() {
		return 0, fmt.Errorf("decimal value %s out of range", d)
	}
	coeff := q.Coeff.Int64()
	if q.Negative {
		coeff = -coeff
	}
	return coeff, nil
}

// formatDecimal renders a scaled integer back to its decimal spelling.
func formatDecimal(v int64, scale int) string {
	var d apd.Decimal
	d.SetFinite(v, int32(-scale))
	return d.Text('f')
}

// DatumToString renders a datum of the given type to its literal form.
func DatumToString(d Datum, ti TypeInfo) string {
	switch ti.Kind {
	case Boolean:
		if d.Bool {
			return "t"
		}
		return "f"
	case SmallInt:
		return strconv.FormatInt(int64(d.SmallInt), 10)
	case Int:
		return strconv.FormatInt(int64(d.Int), 10)
	case BigInt:
		return strconv.FormatInt(d.BigInt, 10)
	case Numeric, Decimal:
		return formatDecimal(d.BigInt, ti.Scale)
	case Float:
		return strconv.FormatFloat(float64(d.Float), 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(d.Double, 'g', -1, 64)
	case Time:
		secs := d.Time % 86400
		if secs < 0 {
			secs += 86400
		}
		return time.Unix(0, 0).UTC().Add(time.Duration(secs) * time.Second).Format(timeLayout)
	case Date:
		return time.Unix(d.Time, 0).UTC().Format(dateLayout)
	case Timestamp:
		return time.Unix(d.Time, 0).UTC().Format(timestampLayout)
	case Char, Varchar, Text:
		return d.Str
	default:
		panic("sqltypes: cannot render datum of kind " + ti.Kind.String())
	}
}
