package ast

// Equal reports structural equality of two trees: same node shapes, same
// leaf templates, parameters, and free text. Spans are ignored so that a
// formatted-and-reparsed tree compares equal to the original.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Leaf:
		y, ok := b.(*Leaf)
		return ok && statementEqual(x.Stmt, y.Stmt)
	case *Not:
		y, ok := b.(*Not)
		return ok && Equal(x.Child, y.Child)
	case *And:
		y, ok := b.(*And)
		return ok && childrenEqual(x.Children, y.Children)
	case *Or:
		y, ok := b.(*Or)
		return ok && childrenEqual(x.Children, y.Children)
	case *Compare:
		y, ok := b.(*Compare)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Average:
		y, ok := b.(*Average)
		return ok && childrenEqual(x.Children, y.Children)
	case *Group:
		y, ok := b.(*Group)
		return ok && Equal(x.Child, y.Child)
	}
	return false
}

func statementEqual(a, b Statement) bool {
	return a.Template == b.Template &&
		a.Param == b.Param &&
		a.HasParam == b.HasParam &&
		a.FreeText == b.FreeText
}

func childrenEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
