package ast

// Query owns the original source text and the parsed tree. It is immutable
// once built: create it by parsing, evaluate it any number of times, discard
// it when done. It holds no external resources.
type Query struct {
	Source string
	Root   Node
}

// UniqueLeaves returns the distinct leaf nodes of the query. Chained
// comparisons share operand nodes, so the same leaf pointer can occur more
// than once in a plain walk.
func (q *Query) UniqueLeaves() []*Leaf {
	all := Leaves(q.Root, nil)
	seen := make(map[*Leaf]bool, len(all))
	uniq := make([]*Leaf, 0, len(all))
	for _, l := range all {
		if seen[l] {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	return uniq
}
