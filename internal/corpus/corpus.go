// Package corpus enumerates, filters, and samples the locally mirrored
// documents in a flat directory.
//
// A Corpus holds no document state: every listing is a fresh directory
// scan, so results always reflect the directory's current contents.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PLOS/allofplos-sub000/internal/article"
	"github.com/PLOS/allofplos-sub000/internal/doi"
)

// hiddenMarkers excludes platform metadata files from every scan.
var hiddenMarkers = []string{"DS_Store"}

// Corpus addresses one directory of XML documents.
type Corpus struct {
	dir       string
	extension string
}

// Option configures a Corpus.
type Option func(*Corpus)

// WithExtension overrides the default .xml member extension.
func WithExtension(ext string) Option {
	return func(c *Corpus) {
		c.extension = ext
	}
}

// New creates a Corpus over the given directory.
func New(dir string, opts ...Option) *Corpus {
	c := &Corpus{dir: dir, extension: doi.Extension}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the corpus directory.
func (c *Corpus) Dir() string {
	return c.dir
}

// NotFoundError indicates an identifier whose backing file is absent,
// carrying the path where it was expected.
type NotFoundError struct {
	DOI  string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("article %s not in corpus (expected %s)", e.DOI, e.Path)
}

// Files returns the member filenames, sorted, from one directory scan.
// Hidden and platform metadata files are excluded.
func (c *Corpus) Files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning corpus directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !c.member(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// member reports whether a filename belongs to the corpus listing.
func (c *Corpus) member(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, marker := range hiddenMarkers {
		if strings.Contains(name, marker) {
			return false
		}
	}
	return strings.HasSuffix(name, c.extension)
}

// DOIs returns the identifiers of every member, sorted by filename.
// Files that do not parse as identifiers are skipped.
func (c *Corpus) DOIs() ([]string, error) {
	files, err := c.Files()
	if err != nil {
		return nil, err
	}
	dois := make([]string, 0, len(files))
	for _, name := range files {
		d, err := doi.FromFilename(name)
		if err != nil {
			continue
		}
		dois = append(dois, d)
	}
	return dois, nil
}

// Len returns the number of member documents. Counted over the
// identifier sequence so that Len always agrees with the range At and
// Slice index, even when a stray non-document file shares the
// extension.
func (c *Corpus) Len() (int, error) {
	dois, err := c.DOIs()
	if err != nil {
		return 0, err
	}
	return len(dois), nil
}

// Contains reports whether a DOI, filename, or absolute path resolves
// to a member currently present in the directory.
func (c *Corpus) Contains(key string) bool {
	name := key
	if filepath.IsAbs(key) {
		if filepath.Dir(key) != filepath.Clean(c.dir) {
			return false
		}
		name = filepath.Base(key)
	} else if err := doi.Validate(key); err == nil {
		name, _ = doi.ToFilename(key)
	}
	if !c.member(name) {
		return false
	}
	_, err := os.Stat(filepath.Join(c.dir, name))
	return err == nil
}

// At returns the article at position i of the sorted identifier
// sequence.
func (c *Corpus) At(i int) (*article.Article, error) {
	dois, err := c.DOIs()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(dois) {
		return nil, fmt.Errorf("corpus index %d out of range [0, %d)", i, len(dois))
	}
	return article.New(dois[i], c.dir)
}

// Slice returns the articles in positions [lo, hi) of the sorted
// identifier sequence.
func (c *Corpus) Slice(lo, hi int) ([]*article.Article, error) {
	dois, err := c.DOIs()
	if err != nil {
		return nil, err
	}
	if lo < 0 || hi > len(dois) || lo > hi {
		return nil, fmt.Errorf("corpus slice [%d:%d] out of range [0, %d)", lo, hi, len(dois))
	}
	articles := make([]*article.Article, 0, hi-lo)
	for _, d := range dois[lo:hi] {
		a, err := article.New(d, c.dir)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Get returns the article for an identifier, failing with NotFoundError
// (carrying the expected path) when the backing file is absent.
func (c *Corpus) Get(d string) (*article.Article, error) {
	a, err := article.New(d, c.dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(a.Path()); err != nil {
		return nil, &NotFoundError{DOI: d, Path: a.Path()}
	}
	return a, nil
}
