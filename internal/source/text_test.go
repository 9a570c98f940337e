package source_test

import (
	"testing"

	"iql/internal/source"
)

func TestResolveSingleLine(t *testing.T) {
	text := source.NewText("q", []byte("{a} AND {b}"))
	start, end := text.Resolve(source.Span{Start: 4, End: 7})
	if start.Line != 1 || start.Col != 5 {
		t.Errorf("start = %d:%d", start.Line, start.Col)
	}
	if end.Line != 1 || end.Col != 8 {
		t.Errorf("end = %d:%d", end.Line, end.Col)
	}
}

func TestResolveMultiLine(t *testing.T) {
	text := source.NewText("q", []byte("{a}\nAND\n{b}"))
	start, _ := text.Resolve(source.Span{Start: 8, End: 11})
	if start.Line != 3 || start.Col != 1 {
		t.Errorf("start = %d:%d", start.Line, start.Col)
	}
}

func TestLine(t *testing.T) {
	text := source.NewText("q", []byte("first\nsecond\nthird"))
	cases := []struct {
		num  uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{0, ""},
		{4, ""},
	}
	for _, tc := range cases {
		if got := text.Line(tc.num); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.num, got, tc.want)
		}
	}
}

func TestSliceClamps(t *testing.T) {
	text := source.NewText("q", []byte("abc"))
	if got := text.Slice(source.Span{Start: 1, End: 100}); got != "bc" {
		t.Errorf("Slice = %q", got)
	}
	if got := text.Slice(source.Span{Start: 50, End: 60}); got != "" {
		t.Errorf("Slice = %q", got)
	}
}

func TestSpanCoverAndOverlap(t *testing.T) {
	a := source.Span{Start: 2, End: 5}
	b := source.Span{Start: 8, End: 10}
	cov := a.Cover(b)
	if cov.Start != 2 || cov.End != 10 {
		t.Errorf("Cover = %v", cov)
	}
	if a.Overlaps(b) {
		t.Error("disjoint spans must not overlap")
	}
	if !a.Overlaps(source.Span{Start: 4, End: 6}) {
		t.Error("expected overlap")
	}
}
