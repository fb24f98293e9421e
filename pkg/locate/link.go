// Package locate converts tree-sitter node positions into LSP location links
// and imposes a deterministic order over collections of links.
package locate

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
)

// Linked is any record that carries a location link. SortLinks orders whole
// records by their link so callers keep their own payload alongside.
type Linked interface {
	LocationLink() protocol.LocationLink
}

// NodeRange converts a node's span into a zero-based half-open LSP range.
func NodeRange(node *sitter.Node) protocol.Range {
	start := node.StartPoint()
	end := node.EndPoint()
	return protocol.Range{
		Start: protocol.Position{Line: int(start.Row), Character: int(start.Column)},
		End:   protocol.Position{Line: int(end.Row), Character: int(end.Column)},
	}
}

// CreateLocationLink builds a link whose target range covers definingNode
// and whose selection range covers selectionNode. selectionNode must lie
// within definingNode; that is not validated here because the query patterns
// that produce the two captures nest the selection inside the definition.
func CreateLocationLink(definingNode, selectionNode *sitter.Node, targetURI protocol.DocumentURI) protocol.LocationLink {
	return protocol.LocationLink{
		TargetURI:            targetURI,
		TargetRange:          NodeRange(definingNode),
		TargetSelectionRange: NodeRange(selectionNode),
	}
}

// SortLinks sorts links by collated target URI, then by ascending
// target-range start line.
//
// The sort is IN PLACE: the input slice is reordered and returned, so
// callers must not rely on the original order afterwards, and a slice shared
// across goroutines needs external synchronization around this call. The
// sort is stable, so links sharing both URI and start line keep their input
// order.
func SortLinks[L Linked](links []L) []L {
	collator := collate.New(language.Und)
	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i].LocationLink(), links[j].LocationLink()
		if c := collator.CompareString(string(a.TargetURI), string(b.TargetURI)); c != 0 {
			return c < 0
		}
		return a.TargetRange.Start.Line < b.TargetRange.Start.Line
	})
	return links
}
