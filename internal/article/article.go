// Package article provides lazy access to one corpus document and its
// bibliographic metadata.
//
// An Article is an immutable value: a DOI plus the directory holding its
// backing file. The parsed XML tree is loaded on first structural access
// and cached for the object's lifetime; addressing a different document
// means constructing a new Article.
package article

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/PLOS/allofplos-sub000/internal/doi"
)

// ErrLocalFileMissing indicates the backing file is absent. Metadata
// accessors degrade to zero values when they hit it; callers that need
// to distinguish use Tree directly.
var ErrLocalFileMissing = errors.New("local article file missing")

// Article addresses one document in a corpus directory.
type Article struct {
	doi string
	dir string

	loaded  bool
	tree    *etree.Document
	treeErr error
}

// New constructs an Article for the given DOI in the given directory.
// The filesystem is not touched until a structural accessor is called.
func New(d, dir string) (*Article, error) {
	if err := doi.Validate(d); err != nil {
		return nil, err
	}
	return &Article{doi: d, dir: dir}, nil
}

// DOI returns the document's identifier.
func (a *Article) DOI() string {
	return a.doi
}

// Filename returns the document's on-disk filename.
func (a *Article) Filename() string {
	name, _ := doi.ToFilename(a.doi) // DOI validated at construction
	return name
}

// Path returns the full path to the backing file.
func (a *Article) Path() string {
	return filepath.Join(a.dir, a.Filename())
}

// URL returns the remote URL serving the document XML.
func (a *Article) URL() string {
	u, _ := doi.ToURL(a.doi)
	return u
}

// IsAmendment reports whether the document is a correction/amendment
// record.
func (a *Article) IsAmendment() bool {
	return doi.IsAmendment(a.doi)
}

// Tree parses and returns the document tree, loading the backing file on
// first call. Returns ErrLocalFileMissing when the file does not exist;
// that case is not latched, so an Article constructed before its
// document is mirrored parses normally once the file arrives. A
// successful parse and any other failure are cached for the object's
// lifetime.
func (a *Article) Tree() (*etree.Document, error) {
	if a.loaded {
		return a.tree, a.treeErr
	}

	data, err := os.ReadFile(a.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLocalFileMissing
		}
		a.loaded = true
		a.treeErr = err
		return nil, a.treeErr
	}
	a.loaded = true

	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		a.treeErr = err
		return nil, a.treeErr
	}
	a.tree = tree
	return a.tree, nil
}

// Root returns the document's root element, or nil when the tree cannot
// be loaded.
func (a *Article) Root() *etree.Element {
	tree, err := a.Tree()
	if err != nil {
		return nil
	}
	return tree.Root()
}

// find walks a path-segment sequence from the document root, returning
// every match at the final segment in document order.
func (a *Article) find(segments []string) []*etree.Element {
	root := a.Root()
	if root == nil {
		return nil
	}
	matches := []*etree.Element{root}
	for _, tag := range segments {
		var next []*etree.Element
		for _, m := range matches {
			next = append(next, m.SelectElements(tag)...)
		}
		if len(next) == 0 {
			return nil
		}
		matches = next
	}
	return matches
}

// findOne returns the first match of a path-segment sequence, or nil.
func (a *Article) findOne(segments []string) *etree.Element {
	matches := a.find(segments)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FlattenText returns all text of an element and its descendants,
// including tail text, in document order, joined with single spaces.
func FlattenText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var parts []string
	for _, v := range iterText(e) {
		if c := strings.TrimSpace(v); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// iterText collects text and tail fragments recursively, in document
// order.
func iterText(e *etree.Element) []string {
	result := []string{e.Text()}
	for _, ch := range e.ChildElements() {
		result = append(result, iterText(ch)...)
		result = append(result, ch.Tail())
	}
	return result
}
