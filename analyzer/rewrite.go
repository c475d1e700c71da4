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

// The three target-list rewrite flavors. Each walks the tree and
// substitutes leaves by consulting an ordered target list; internal
// nodes are rebuilt with the same attributes around rewritten
// children, so the original tree is intact on failure.

func (c *ColumnVar) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	for _, te := range tlist {
		if cv := asColumnVar(te.Expr); cv != nil &&
			c.TableID == cv.TableID && c.ColumnID == cv.ColumnID {
			return te.Expr.Copy(), nil
		}
	}
	return nil, errtype(c, ErrNotInTargetList, "internal error: cannot find ColumnVar in targetlist")
}

func (c *ColumnVar) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	varno := 1
	for _, te := range tlist {
		cv := asColumnVar(te.Expr)
		if cv == nil {
			return nil, errtype(c, ErrTargetListNotAllColumns,
				"internal error: targetlist in rewrite_with_child_targetlist is not all columns")
		}
		if c.TableID == cv.TableID && c.ColumnID == cv.ColumnID {
			return NewVar(cv.TypeInfo(), cv.TableID, cv.ColumnID, cv.RTEIdx, RowInputOuter, varno), nil
		}
		varno++
	}
	return nil, errtype(c, ErrNotInTargetList, "internal error: cannot find ColumnVar in child targetlist")
}

func (c *ColumnVar) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	varno := 1
	for _, te := range tlist {
		if _, isAgg := te.Expr.(*AggExpr); !isAgg {
			cv := asColumnVar(te.Expr)
			if cv == nil {
				return nil, errtype(c, ErrTargetListNotAllColumnsOrAggs,
					"internal error: targetlist in rewrite_agg_to_var is not all columns and aggregates")
			}
			if c.TableID == cv.TableID && c.ColumnID == cv.ColumnID {
				return NewVar(cv.TypeInfo(), cv.TableID, cv.ColumnID, cv.RTEIdx, RowInputOuter, varno), nil
			}
		}
		varno++
	}
	return nil, errtype(c, ErrNotInTargetList,
		"internal error: cannot find ColumnVar from having clause in targetlist")
}

func (v *Var) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	varno := 1
	for _, te := range tlist {
		if te.Expr.Equals(v) {
			return NewSlotVar(te.Expr.TypeInfo(), RowInputOuter, varno), nil
		}
		varno++
	}
	return nil, errtype(v, ErrNotInTargetList,
		"internal error: cannot find Var from having clause in targetlist")
}

func (c *Constant) RewriteWithTargetList([]*TargetEntry) (Node, error)      { return c.Copy(), nil }
func (c *Constant) RewriteWithChildTargetList([]*TargetEntry) (Node, error) { return c.Copy(), nil }
func (c *Constant) RewriteAggToVar([]*TargetEntry) (Node, error)            { return c.Copy(), nil }

func (s *Subquery) RewriteWithTargetList([]*TargetEntry) (Node, error) {
	return nil, errtype(s, ErrUnsupportedSubquery, "cannot rewrite a subquery")
}
func (s *Subquery) RewriteWithChildTargetList([]*TargetEntry) (Node, error) {
	return nil, errtype(s, ErrUnsupportedSubquery, "cannot rewrite a subquery")
}
func (s *Subquery) RewriteAggToVar([]*TargetEntry) (Node, error) {
	return nil, errtype(s, ErrUnsupportedSubquery, "cannot rewrite a subquery")
}

func (u *UOper) rebuild(operand Node) Node {
	return &UOper{exprBase: u.exprBase, Op: u.Op, Operand: operand}
}

func (u *UOper) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	operand, err := u.Operand.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return u.rebuild(operand), nil
}

func (u *UOper) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	operand, err := u.Operand.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return u.rebuild(operand), nil
}

func (u *UOper) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	operand, err := u.Operand.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return u.rebuild(operand), nil
}

func (b *BinOper) rebuild(left, right Node) Node {
	return &BinOper{exprBase: b.exprBase, Op: b.Op, Qualifier: b.Qualifier, Left: left, Right: right}
}

func (b *BinOper) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	left, err := b.Left.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return b.rebuild(left, right), nil
}

func (b *BinOper) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	left, err := b.Left.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return b.rebuild(left, right), nil
}

func (b *BinOper) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	left, err := b.Left.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return b.rebuild(left, right), nil
}

// The IN value list holds literals; the first two flavors only copy
// it, while agg-to-var rewrites it fully.

func (in *InValues) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := in.Arg.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	vals := make([]Node, len(in.Values))
	for i, e := range in.Values {
		vals[i] = e.Copy()
	}
	return &InValues{exprBase: in.exprBase, Arg: arg, Values: vals}, nil
}

func (in *InValues) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := in.Arg.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	vals := make([]Node, len(in.Values))
	for i, e := range in.Values {
		vals[i] = e.Copy()
	}
	return &InValues{exprBase: in.exprBase, Arg: arg, Values: vals}, nil
}

func (in *InValues) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	arg, err := in.Arg.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	vals := make([]Node, len(in.Values))
	for i, e := range in.Values {
		v, err := e.RewriteAggToVar(tlist)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return &InValues{exprBase: in.exprBase, Arg: arg, Values: vals}, nil
}

func (cl *CharLengthExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := cl.Arg.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &CharLengthExpr{exprBase: cl.exprBase, Arg: arg, CalcEncodedLength: cl.CalcEncodedLength}, nil
}

func (cl *CharLengthExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := cl.Arg.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &CharLengthExpr{exprBase: cl.exprBase, Arg: arg, CalcEncodedLength: cl.CalcEncodedLength}, nil
}

func (cl *CharLengthExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	arg, err := cl.Arg.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return &CharLengthExpr{exprBase: cl.exprBase, Arg: arg, CalcEncodedLength: cl.CalcEncodedLength}, nil
}

// LIKE patterns and escapes are literals; only the argument threads
// through the target list.

func (lk *LikeExpr) rebuild(arg Node) Node {
	var esc Node
	if lk.Escape != nil {
		esc = lk.Escape.Copy()
	}
	return &LikeExpr{
		exprBase: lk.exprBase,
		Arg:      arg,
		Pattern:  lk.Pattern.Copy(),
		Escape:   esc,
		IsIlike:  lk.IsIlike,
		IsSimple: lk.IsSimple,
	}
}

func (lk *LikeExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := lk.Arg.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return lk.rebuild(arg), nil
}

func (lk *LikeExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	arg, err := lk.Arg.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return lk.rebuild(arg), nil
}

func (lk *LikeExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	arg, err := lk.Arg.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return lk.rebuild(arg), nil
}

func (a *AggExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	for _, te := range tlist {
		if agg, ok := te.Expr.(*AggExpr); ok && a.Equals(agg) {
			return agg.Copy(), nil
		}
	}
	return nil, errtype(a, ErrNotInTargetList, "internal error: cannot find AggExpr in targetlist")
}

func (a *AggExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	var arg Node
	if a.Arg != nil {
		var err error
		if arg, err = a.Arg.RewriteWithChildTargetList(tlist); err != nil {
			return nil, err
		}
	}
	return &AggExpr{exprBase: a.exprBase, AggType: a.AggType, Arg: arg, IsDistinct: a.IsDistinct}, nil
}

func (a *AggExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	varno := 1
	for _, te := range tlist {
		if agg, ok := te.Expr.(*AggExpr); ok && a.Equals(agg) {
			return NewSlotVar(agg.TypeInfo(), RowInputOuter, varno), nil
		}
		varno++
	}
	return nil, errtype(a, ErrNotInTargetList,
		"internal error: cannot find AggExpr from having clause in targetlist")
}

func (c *CaseExpr) rewritePairs(
	f func(Node) (Node, error),
) (*CaseExpr, error) {
	pairs := make([]WhenThen, len(c.Pairs))
	for i, p := range c.Pairs {
		when, err := f(p.When)
		if err != nil {
			return nil, err
		}
		then, err := f(p.Then)
		if err != nil {
			return nil, err
		}
		pairs[i] = WhenThen{When: when, Then: then}
	}
	var els Node
	if c.Else != nil {
		var err error
		if els, err = f(c.Else); err != nil {
			return nil, err
		}
	}
	return &CaseExpr{exprBase: c.exprBase, Pairs: pairs, Else: els}, nil
}

func (c *CaseExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	return c.rewritePairs(func(n Node) (Node, error) { return n.RewriteWithTargetList(tlist) })
}

func (c *CaseExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	return c.rewritePairs(func(n Node) (Node, error) { return n.RewriteWithChildTargetList(tlist) })
}

func (c *CaseExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	return c.rewritePairs(func(n Node) (Node, error) { return n.RewriteAggToVar(tlist) })
}

func (ex *ExtractExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	from, err := ex.From.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &ExtractExpr{exprBase: ex.exprBase, Field: ex.Field, From: from}, nil
}

func (ex *ExtractExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	from, err := ex.From.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &ExtractExpr{exprBase: ex.exprBase, Field: ex.Field, From: from}, nil
}

func (ex *ExtractExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	from, err := ex.From.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return &ExtractExpr{exprBase: ex.exprBase, Field: ex.Field, From: from}, nil
}

func (dt *DatetruncExpr) RewriteWithTargetList(tlist []*TargetEntry) (Node, error) {
	from, err := dt.From.RewriteWithTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &DatetruncExpr{exprBase: dt.exprBase, Field: dt.Field, From: from}, nil
}

func (dt *DatetruncExpr) RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error) {
	from, err := dt.From.RewriteWithChildTargetList(tlist)
	if err != nil {
		return nil, err
	}
	return &DatetruncExpr{exprBase: dt.exprBase, Field: dt.Field, From: from}, nil
}

func (dt *DatetruncExpr) RewriteAggToVar(tlist []*TargetEntry) (Node, error) {
	from, err := dt.From.RewriteAggToVar(tlist)
	if err != nil {
		return nil, err
	}
	return &DatetruncExpr{exprBase: dt.exprBase, Field: dt.Field, From: from}, nil
}
