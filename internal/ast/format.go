package ast

import (
	"strings"
)

// Format prints a node back to IQL text. Parsing the output yields a
// structurally identical tree: explicit parentheses survive as Group nodes
// and statements are always rendered in brace form, which parses the same
// as the implicit standalone form.
func Format(n Node) string {
	var b strings.Builder
	formatNode(&b, n)
	return b.String()
}

func formatNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Leaf:
		formatLeaf(b, v)
	case *Not:
		b.WriteString("NOT ")
		formatNode(b, v.Child)
	case *And:
		formatJoin(b, v.Children, " AND ")
	case *Or:
		formatJoin(b, v.Children, " OR ")
	case *Compare:
		formatNode(b, v.Left)
		b.WriteString(" ")
		b.WriteString(v.Op.String())
		b.WriteString(" ")
		formatNode(b, v.Right)
	case *Average:
		formatJoin(b, v.Children, " + ")
	case *Group:
		b.WriteString("(")
		formatNode(b, v.Child)
		b.WriteString(")")
	}
}

func formatLeaf(b *strings.Builder, l *Leaf) {
	if l.Stmt.IsTemplate() {
		b.WriteString(l.Stmt.ScoringText())
		return
	}
	b.WriteString("{")
	b.WriteString(l.Stmt.FreeText)
	b.WriteString("}")
}

func formatJoin(b *strings.Builder, children []Node, sep string) {
	for i, c := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		formatNode(b, c)
	}
}
