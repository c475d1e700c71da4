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
	"strings"

	"golang.org/x/exp/slices"

	"github.com/lkire/mapd-core/sqltypes"
)

// WhenThen is one arm of a CASE expression.
type WhenThen struct {
	When Node
	Then Node
}

// CaseExpr is a searched CASE. Else may be nil.
type CaseExpr struct {
	exprBase
	Pairs []WhenThen
	Else  Node
}

func NewCaseExpr(ti sqltypes.TypeInfo, pairs []WhenThen, elseExpr Node) *CaseExpr {
	children := make([]Node, 0, 2*len(pairs)+1)
	for _, p := range pairs {
		children = append(children, p.When, p.Then)
	}
	children = append(children, elseExpr)
	return &CaseExpr{exprBase: base(ti, children...), Pairs: pairs, Else: elseExpr}
}

func (c *CaseExpr) walk(v Visitor) {
	for _, p := range c.Pairs {
		Walk(v, p.When)
		Walk(v, p.Then)
	}
	if c.Else != nil {
		Walk(v, c.Else)
	}
}

func (c *CaseExpr) Copy() Node {
	pairs := make([]WhenThen, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = WhenThen{When: p.When.Copy(), Then: p.Then.Copy()}
	}
	var els Node
	if c.Else != nil {
		els = c.Else.Copy()
	}
	return &CaseExpr{exprBase: c.exprBase, Pairs: pairs, Else: els}
}

func (c *CaseExpr) Equals(x Node) bool {
	o, ok := x.(*CaseExpr)
	if !ok {
		return false
	}
	if !slices.EqualFunc(c.Pairs, o.Pairs, func(a, b WhenThen) bool {
		return a.When.Equals(b.When) && a.Then.Equals(b.Then)
	}) {
		return false
	}
	return Equal(c.Else, o.Else)
}

// AddCast pushes the cast into each THEN arm and the ELSE arm and
// retypes the node in place; this is the one sanctioned mutation on a
// built tree, performed before it is handed to the planner. When the
// target is the transient dictionary and the arms are plain strings
// with a persistent dictionary id, the transient id is rewritten to
// that dictionary's transient counterpart first.
func (c *CaseExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) {
	if ti.IsString() && ti.Compression == sqltypes.EncodingDict && ti.CompParam == sqltypes.TransientDictID &&
		c.typ.IsString() && c.typ.Compression == sqltypes.EncodingNone && c.typ.CompParam > sqltypes.TransientDictID {
		ti.CompParam = sqltypes.TransientDict(c.typ.CompParam)
	}
	for i := range c.Pairs {
		then, err := c.Pairs[i].Then.AddCast(ti)
		if err != nil {
			return nil, err
		}
		c.Pairs[i].Then = then
	}
	if c.Else != nil {
		els, err := c.Else.AddCast(ti)
		if err != nil {
			return nil, err
		}
		c.Else = els
	}
	c.typ = ti
	return c, nil
}

// Domain collects the set of values this CASE can produce, for
// planning dictionary encodings. An empty result means the domain is
// unbounded and the caller must treat it as unknown.
func (c *CaseExpr) Domain(set *ExprList) {
	for _, p := range c.Pairs {
		if !domainAdd(set, p.Then) {
			*set = nil
			return
		}
	}
	if c.Else != nil {
		if !domainAdd(set, c.Else) {
			*set = nil
		}
	}
}

func domainAdd(set *ExprList, e Node) bool {
	switch v := e.(type) {
	case *Constant:
		set.AddUnique(v)
		return true
	case *UOper:
		if v.Op == OpCast {
			if _, ok := v.Operand.(*Constant); ok {
				set.AddUnique(v)
				return true
			}
			if asColumnVar(v.Operand) != nil {
				set.AddUnique(v)
				return true
			}
		}
		return false
	case *CaseExpr:
		v.Domain(set)
		return len(*set) > 0
	default:
		if asColumnVar(e) != nil {
			set.AddUnique(e)
			return true
		}
		return false
	}
}

func (c *CaseExpr) text(dst *strings.Builder, redact bool) {
	dst.WriteString("CASE ")
	for i, p := range c.Pairs {
		if i > 0 {
			dst.WriteByte(' ')
		}
		dst.WriteByte('(')
		p.When.text(dst, redact)
		dst.WriteString(", ")
		p.Then.text(dst, redact)
		dst.WriteByte(')')
	}
	if c.Else != nil {
		dst.WriteString(" ELSE ")
		c.Else.text(dst, redact)
	}
	dst.WriteString(" END")
}
