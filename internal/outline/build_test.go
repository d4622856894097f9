package outline

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape renders a forest as "A(B,C) D" for compact assertions.
func shape(nodes []*doctree.Node) string {
	return joinShape(nodes, " ")
}

func joinShape(nodes []*doctree.Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s := n.Value
		if len(n.Children) > 0 {
			s += "(" + joinShape(n.Children, ",") + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func build(input string) []*doctree.Node {
	return BuildTree(input, DefaultOptions())
}

func TestBuildTree_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"item with subitem", "- Item 1\n - Subitem 1.1\n- Item 2", "Item 1(Subitem 1.1) Item 2"},
		{"siblings under two-space indent", "- A\n  - B\n  - C\n- D", "A(B,C) D"},
		{"overshoot attaches one level down", "- A\n    - B", "A(B)"},
		{"empty input", "", ""},
		{"only blank lines", "\n\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shape(build(tt.input)))
		})
	}
}

func TestBuildTree_EmptyInputsReturnEmptyForest(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "   \n\t\n", "-\n - \n"} {
		assert.Empty(t, build(input), "input %q", input)
	}
}

func TestBuildTree_NodeFields(t *testing.T) {
	roots := build("- Item 1\n - Subitem 1.1\n- Item 2")
	require.Len(t, roots, 2)

	item1 := roots[0]
	assert.Equal(t, "Item 1", item1.Value)
	assert.Equal(t, doctree.KindItem, item1.Kind)
	assert.Equal(t, 0, item1.Depth)
	require.Len(t, item1.Children, 1)

	sub := item1.Children[0]
	assert.Equal(t, "Subitem 1.1", sub.Value)
	assert.Equal(t, 1, sub.Depth)
	assert.Empty(t, sub.Children)

	assert.Equal(t, "Item 2", roots[1].Value)
	assert.Empty(t, roots[1].Children)
}

func TestBuildTree_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"indented first line is a root", "   - A\n- B", "A B"},
		{"indented first line then deeper", "  - A\n   - B", "A(B)"},
		{"deep then root then one", "- A\n - B\n  - C\n- D\n - E", "A(B(C)) D(E)"},
		{"two to zero to one", "  - A\n- B\n - C", "A B(C)"},
		{"identical depth siblings", "- A\n - B\n - C\n - D", "A(B,C,D)"},
		{"trailing blank lines", "- A\n - B\n\n\n", "A(B)"},
		{"blank line inside nesting", "- A\n\n - B\n\n  - C", "A(B(C))"},
		{"ragged dedent lands on shallower ancestor", "- A\n    - B\n  - C", "A(B,C)"},
		{"ragged dedent keeps deeper ancestor", "- A\n  - B\n      - C\n    - D", "A(B(C,D))"},
		{"mixed text", "Intro\n- A\n  note\n- B", "Intro A(note) B"},
		{"text can parent items", "Heading\n - A\n - B", "Heading(A,B)"},
		{"marker-only lines skipped", "- A\n -\n - B", "A(B)"},
		{"crlf", "- A\r\n - B\r\n", "A(B)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shape(build(tt.input)))
		})
	}
}

func TestBuildTree_Kinds(t *testing.T) {
	roots := build("Intro\n- A")
	require.Len(t, roots, 2)
	assert.Equal(t, doctree.KindText, roots[0].Kind)
	assert.Equal(t, doctree.KindItem, roots[1].Kind)
}

func TestBuildTree_Spans(t *testing.T) {
	input := "- A\n - B\n\n  - C\n- D"
	roots := build(input)
	require.Len(t, roots, 2)

	a := roots[0]
	assert.Equal(t, doctree.Span{Start: 1, End: 4}, a.Span)
	assert.Equal(t, doctree.Span{Start: 2, End: 4}, a.Children[0].Span)
	assert.Equal(t, doctree.Span{Start: 4, End: 4}, a.Children[0].Children[0].Span)
	assert.Equal(t, doctree.Span{Start: 5, End: 5}, roots[1].Span)
}

func TestBuildTree_IndentWidthTwo(t *testing.T) {
	roots := BuildTree("- A\n  - B\n - C\n    - D", Options{IndentWidth: 2})
	// " - C" truncates to depth 0 and becomes a root.
	assert.Equal(t, "A(B) C(D)", shape(roots))
}

// randomOutline produces ragged, blank-laden outlines for property checks.
func randomOutline(r *rand.Rand, lines int) string {
	var sb strings.Builder
	for i := range lines {
		switch r.IntN(6) {
		case 0:
			sb.WriteString(strings.Repeat(" ", r.IntN(4)))
		case 1:
			fmt.Fprintf(&sb, "%stext %d", strings.Repeat(" ", r.IntN(8)), i)
		default:
			fmt.Fprintf(&sb, "%s- n%d", strings.Repeat(" ", r.IntN(8)), i)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func checkDepths(t *testing.T, nodes []*doctree.Node, depth int) {
	t.Helper()
	for _, n := range nodes {
		require.Equal(t, depth, n.Depth, "node %q", n.Value)
		require.NotEmpty(t, n.Value)
		require.LessOrEqual(t, n.Span.Start, n.Span.End)
		for _, c := range n.Children {
			require.Greater(t, c.Span.Start, n.Span.Start)
			require.LessOrEqual(t, c.Span.End, n.Span.End)
		}
		checkDepths(t, n.Children, depth+1)
	}
}

func TestBuildTree_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := range 200 {
		input := randomOutline(r, 1+r.IntN(40))

		first := build(input)
		second := build(input)
		require.True(t, doctree.Equal(first, second), "case %d: not deterministic", i)

		checkDepths(t, first, 0)

		withoutBlanks := removeBlankLines(input)
		require.True(t, doctree.Equal(first, build(withoutBlanks)), "case %d: blank lines changed the forest", i)

		withExtra := strings.ReplaceAll(input, "\n", "\n\n  \n")
		require.True(t, doctree.Equal(first, build(withExtra)), "case %d: inserted blank lines changed the forest", i)
	}
}

func removeBlankLines(s string) string {
	var kept []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func TestBuildTree_ConcurrentCalls(t *testing.T) {
	input := "- A\n - B\n  - C\n- D"
	want := build(input)

	done := make(chan []*doctree.Node, 16)
	for range 16 {
		go func() { done <- build(input) }()
	}
	for range 16 {
		assert.True(t, doctree.Equal(want, <-done))
	}
}

func FuzzBuildTree(f *testing.F) {
	f.Add("- Item 1\n - Subitem 1.1\n- Item 2", 1)
	f.Add("- A\n  - B\n  - C\n- D", 2)
	f.Add("- A\n    - B", 1)
	f.Add("", 1)
	f.Add("\n\n\n", 3)
	f.Add("\t-\t\r\n-x\n - ", 0)

	f.Fuzz(func(t *testing.T, input string, width int) {
		roots := BuildTree(input, Options{IndentWidth: width})
		checkDepths(t, roots, 0)
	})
}
