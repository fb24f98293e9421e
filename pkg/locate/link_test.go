package locate_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helgardferreira/cucumber-language-service/pkg/locate"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
	"github.com/helgardferreira/cucumber-language-service/pkg/syntax"
)

func TestCreateLocationLink(t *testing.T) {
	source := []byte("const x = 1;\nclass Abc {\n  myMethod() {}\n}\n")

	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	require.NoError(t, err)
	defer tree.Close()

	classes := syntax.Filter(tree.RootNode(), func(n *sitter.Node) bool {
		return n.Type() == "class_declaration"
	})
	require.Len(t, classes, 1)
	name := classes[0].ChildByFieldName("name")
	require.NotNil(t, name)

	link := locate.CreateLocationLink(classes[0], name, "file:///a.ts")

	assert.Equal(t, protocol.LocationLink{
		TargetURI: "file:///a.ts",
		TargetRange: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 0},
			End:   protocol.Position{Line: 3, Character: 1},
		},
		TargetSelectionRange: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 6},
			End:   protocol.Position{Line: 1, Character: 9},
		},
	}, link)
}

// testLink is the smallest record that SortLinks can order.
type testLink struct {
	id   string
	link protocol.LocationLink
}

func (l testLink) LocationLink() protocol.LocationLink { return l.link }

func newTestLink(id string, uri protocol.DocumentURI, startLine int) testLink {
	return testLink{
		id: id,
		link: protocol.LocationLink{
			TargetURI: uri,
			TargetRange: protocol.Range{
				Start: protocol.Position{Line: startLine},
				End:   protocol.Position{Line: startLine + 1},
			},
		},
	}
}

func ids(links []testLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.id
	}
	return out
}

func TestSortLinks(t *testing.T) {
	tests := []struct {
		name  string
		input []testLink
		want  []string
	}{
		{
			name: "orders by uri",
			input: []testLink{
				newTestLink("second", "file:///b.ts", 0),
				newTestLink("first", "file:///a.ts", 0),
			},
			want: []string{"first", "second"},
		},
		{
			name: "uri order is independent of input order",
			input: []testLink{
				newTestLink("first", "file:///a.ts", 0),
				newTestLink("second", "file:///b.ts", 0),
			},
			want: []string{"first", "second"},
		},
		{
			name: "equal uris order by start line",
			input: []testLink{
				newTestLink("line5", "file:///x.ts", 5),
				newTestLink("line2", "file:///x.ts", 2),
			},
			want: []string{"line2", "line5"},
		},
		{
			name: "equal uri and line keep input order",
			input: []testLink{
				newTestLink("tie1", "file:///x.ts", 3),
				newTestLink("tie2", "file:///x.ts", 3),
			},
			want: []string{"tie1", "tie2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := locate.SortLinks(tt.input)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortLinks_InPlaceAndIdempotent(t *testing.T) {
	links := []testLink{
		newTestLink("c", "file:///c.ts", 0),
		newTestLink("a", "file:///a.ts", 4),
		newTestLink("b", "file:///a.ts", 9),
	}

	sorted := locate.SortLinks(links)

	// same backing array, reordered in place
	require.Len(t, sorted, len(links))
	assert.Equal(t, ids(links), ids(sorted))
	assert.Equal(t, []string{"a", "b", "c"}, ids(sorted))

	again := locate.SortLinks(sorted)
	assert.Equal(t, []string{"a", "b", "c"}, ids(again))
}
