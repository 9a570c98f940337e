package ast

import (
	"iql/internal/source"
)

// Node is a query tree node. Nodes are immutable after construction;
// evaluation never mutates them, so a tree may be shared across
// concurrent evaluations.
type Node interface {
	Span() source.Span
	node()
}

// CompareOp is the operator of a Compare node.
type CompareOp uint8

const (
	// CmpGt is the '>' comparison.
	CmpGt CompareOp = iota
	// CmpLt is the '<' comparison.
	CmpLt
)

func (op CompareOp) String() string {
	if op == CmpLt {
		return "<"
	}
	return ">"
}

// Leaf wraps a single statement.
type Leaf struct {
	Stmt Statement
}

// Not negates its single child.
type Not struct {
	Child Node
	Loc   source.Span
}

// And conjoins two or more children.
type And struct {
	Children []Node
	Loc      source.Span
}

// Or disjoins two or more children.
type Or struct {
	Children []Node
	Loc      source.Span
}

// Compare relates exactly two operands. Chained comparisons never produce
// a wider Compare; the parser desugars them into And-of-pairs.
type Compare struct {
	Op    CompareOp
	Left  Node
	Right Node
	Loc   source.Span
}

// Average combines two or more children with '+'.
type Average struct {
	Children []Node
	Loc      source.Span
}

// Group is a parenthesized sub-tree, preserved for round-trip formatting.
type Group struct {
	Child Node
	Loc   source.Span
}

func (n *Leaf) Span() source.Span    { return n.Stmt.Span }
func (n *Not) Span() source.Span     { return n.Loc }
func (n *And) Span() source.Span     { return n.Loc }
func (n *Or) Span() source.Span      { return n.Loc }
func (n *Compare) Span() source.Span { return n.Loc }
func (n *Average) Span() source.Span { return n.Loc }
func (n *Group) Span() source.Span   { return n.Loc }

func (*Leaf) node()    {}
func (*Not) node()     {}
func (*And) node()     {}
func (*Or) node()      {}
func (*Compare) node() {}
func (*Average) node() {}
func (*Group) node()   {}

// Leaves appends every leaf under n to dst in source order and returns it.
func Leaves(n Node, dst []*Leaf) []*Leaf {
	switch v := n.(type) {
	case *Leaf:
		dst = append(dst, v)
	case *Not:
		dst = Leaves(v.Child, dst)
	case *And:
		for _, c := range v.Children {
			dst = Leaves(c, dst)
		}
	case *Or:
		for _, c := range v.Children {
			dst = Leaves(c, dst)
		}
	case *Compare:
		dst = Leaves(v.Left, dst)
		dst = Leaves(v.Right, dst)
	case *Average:
		for _, c := range v.Children {
			dst = Leaves(c, dst)
		}
	case *Group:
		dst = Leaves(v.Child, dst)
	}
	return dst
}
