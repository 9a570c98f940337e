package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"iql/internal/ast"
	"iql/internal/source"
)

// NodeJSON is the recursive JSON form of a query tree node.
type NodeJSON struct {
	Kind     string      `json:"kind"`
	Span     source.Span `json:"span"`
	Template string      `json:"template,omitempty"`
	Param    string      `json:"param,omitempty"`
	FreeText string      `json:"free_text,omitempty"`
	Op       string      `json:"op,omitempty"`
	Children []NodeJSON  `json:"children,omitempty"`
}

// FormatQueryPretty writes an indented tree rendering of the query.
func FormatQueryPretty(w io.Writer, q *ast.Query) error {
	writeNode(w, q.Root, 0)
	return nil
}

func writeNode(w io.Writer, n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	sp := n.Span()

	switch v := n.(type) {
	case *ast.Leaf:
		fmt.Fprintf(w, "%sLEAF %s %s\n", indent, v.Stmt.ScoringText(), sp)
	case *ast.Not:
		fmt.Fprintf(w, "%sNOT %s\n", indent, sp)
		writeNode(w, v.Child, depth+1)
	case *ast.And:
		fmt.Fprintf(w, "%sAND %s\n", indent, sp)
		for _, c := range v.Children {
			writeNode(w, c, depth+1)
		}
	case *ast.Or:
		fmt.Fprintf(w, "%sOR %s\n", indent, sp)
		for _, c := range v.Children {
			writeNode(w, c, depth+1)
		}
	case *ast.Compare:
		fmt.Fprintf(w, "%sCOMPARE %s %s\n", indent, v.Op, sp)
		writeNode(w, v.Left, depth+1)
		writeNode(w, v.Right, depth+1)
	case *ast.Average:
		fmt.Fprintf(w, "%sAVERAGE %s\n", indent, sp)
		for _, c := range v.Children {
			writeNode(w, c, depth+1)
		}
	case *ast.Group:
		fmt.Fprintf(w, "%sGROUP %s\n", indent, sp)
		writeNode(w, v.Child, depth+1)
	}
}

// FormatQueryJSON writes the query tree as indented JSON.
func FormatQueryJSON(w io.Writer, q *ast.Query) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodeToJSON(q.Root))
}

func nodeToJSON(n ast.Node) NodeJSON {
	out := NodeJSON{Span: n.Span()}
	switch v := n.(type) {
	case *ast.Leaf:
		out.Kind = "leaf"
		if v.Stmt.IsTemplate() {
			out.Template = v.Stmt.Template
			if v.Stmt.HasParam {
				out.Param = v.Stmt.Param
			}
		} else {
			out.FreeText = v.Stmt.FreeText
		}
	case *ast.Not:
		out.Kind = "not"
		out.Children = []NodeJSON{nodeToJSON(v.Child)}
	case *ast.And:
		out.Kind = "and"
		for _, c := range v.Children {
			out.Children = append(out.Children, nodeToJSON(c))
		}
	case *ast.Or:
		out.Kind = "or"
		for _, c := range v.Children {
			out.Children = append(out.Children, nodeToJSON(c))
		}
	case *ast.Compare:
		out.Kind = "compare"
		out.Op = v.Op.String()
		out.Children = []NodeJSON{nodeToJSON(v.Left), nodeToJSON(v.Right)}
	case *ast.Average:
		out.Kind = "average"
		for _, c := range v.Children {
			out.Children = append(out.Children, nodeToJSON(c))
		}
	case *ast.Group:
		out.Kind = "group"
		out.Children = []NodeJSON{nodeToJSON(v.Child)}
	}
	return out
}
