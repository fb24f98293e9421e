package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// MultipleCapturesError reports that a query match bound more than one node
// to a capture name the caller expected to be unique. This is an invariant
// violation: it means the query or the source is malformed, and picking one
// of the nodes silently would hide that.
type MultipleCapturesError struct {
	Name  string
	Texts []string
}

func (e *MultipleCapturesError) Error() string {
	return fmt.Sprintf("expected at most one %q capture, got %d: %s", e.Name, len(e.Texts), strings.Join(e.Texts, ", "))
}

// CaptureNodes returns every node in match whose capture name equals name,
// preserving match order. Capture names are resolved against query, which
// must be the query that produced the match.
func CaptureNodes(query *sitter.Query, match *sitter.QueryMatch, name string) []*sitter.Node {
	var nodes []*sitter.Node
	for _, capture := range match.Captures {
		if query.CaptureNameForId(capture.Index) == name {
			nodes = append(nodes, capture.Node)
		}
	}
	return nodes
}

// CaptureNode returns the single node bound to name in match, or nil when
// the capture is absent. Two or more nodes under the same name fail with a
// *MultipleCapturesError carrying the text of every conflicting node.
func CaptureNode(query *sitter.Query, match *sitter.QueryMatch, source []byte, name string) (*sitter.Node, error) {
	nodes := CaptureNodes(query, match, name)
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	default:
		texts := make([]string, len(nodes))
		for i, node := range nodes {
			texts[i] = node.Content(source)
		}
		return nil, &MultipleCapturesError{Name: name, Texts: texts}
	}
}
