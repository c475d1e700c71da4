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
	"fmt"
)

// Error kinds surfaced at the point of violation. Callers test them
// with errors.Is and render the TypeError message to the user.
var (
	ErrNonBooleanInLogic             = errors.New("non-boolean operands in logic operation")
	ErrIncomparableTemporals         = errors.New("temporal types cannot be compared")
	ErrIncomparable                  = errors.New("types cannot be compared")
	ErrNonNumericArithmetic          = errors.New("non-numeric operands in arithmetic operation")
	ErrNonIntegerModulo              = errors.New("non-integer operands in modulo operation")
	ErrUncastableTypes               = errors.New("illegal cast")
	ErrInvalidCast                   = errors.New("invalid literal cast")
	ErrGroupByNeedsDict              = errors.New("group by requires dictionary encoding")
	ErrTransientEncoding             = errors.New("transient encoding on non-literal expression")
	ErrNotInTargetList               = errors.New("expression not found in target list")
	ErrTargetListNotAllColumns       = errors.New("target list is not all columns")
	ErrTargetListNotAllColumnsOrAggs = errors.New("target list is not all columns and aggregates")
	ErrGroupByViolation              = errors.New("expression is neither aggregated nor grouped")
	ErrInvalidVarInGroupBy           = errors.New("invalid VAR in GROUP BY or HAVING")
	ErrUnsupportedSubquery           = errors.New("operation not supported on subqueries")
)

// TypeError is the error type returned when an expression violates the
// type rules. At names the offending expression when one exists.
type TypeError struct {
	At  Node
	Err error
	Msg string
}

func (t *TypeError) Error() string {
	if t.At != nil {
		return fmt.Sprintf("%q is ill-typed: %s", ToString(t.At), t.Msg)
	}
	return t.Msg
}

func (t *TypeError) Unwrap() error { return t.Err }

func errtype(at Node, kind error, format string, args ...any) *TypeError {
	return &TypeError{At: at, Err: kind, Msg: fmt.Sprintf(format, args...)}
}
