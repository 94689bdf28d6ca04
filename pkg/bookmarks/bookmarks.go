// Package bookmarks models the read-only bookmark tree supplied by the
// host platform.
//
// A node with a URL is a leaf link; a node without one is a folder (which
// may have empty children). The core never writes back to the source: one
// snapshot read is the whole contract.
package bookmarks

import (
	"context"
	"encoding/json"
	"os"

	"github.com/tilemarks/tilemarks/pkg/errors"
)

// Node is one entry in the bookmark tree.
type Node struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// IsLink reports whether the node is a leaf link.
func (n *Node) IsLink() bool { return n.URL != "" }

// Walk visits every node in depth-first order, parents before children.
// Walking stops early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Links flattens the tree into its leaf links in visit order.
func (n *Node) Links() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if node.IsLink() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Find returns the node with the given ID, or nil.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Source supplies one read-only snapshot of the bookmark tree.
type Source interface {
	Tree(ctx context.Context) (*Node, error)
}

// FileSource reads an exported bookmarks JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a Source over the given JSON export file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Tree reads and decodes the export file.
func (s *FileSource) Tree(ctx context.Context) (*Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeBookmarkNotFound, "bookmarks file %s not found", s.path)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read bookmarks file %s", s.path)
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode bookmarks file %s", s.path)
	}
	return &root, nil
}

// StaticSource wraps an in-memory tree. Intended for tests.
type StaticSource struct {
	Root *Node
}

// Tree returns the wrapped tree.
func (s *StaticSource) Tree(ctx context.Context) (*Node, error) {
	return s.Root, nil
}
