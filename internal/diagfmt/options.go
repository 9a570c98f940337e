// Package diagfmt renders diagnostics and token dumps for the CLI,
// either human-readable with source context or as JSON.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color           bool
	ShowNotes       bool
	ShowSuggestions bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col alongside byte offsets
	Max              int  // output truncation, does not touch the Bag
}
