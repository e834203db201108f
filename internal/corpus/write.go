package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PLOS/allofplos-sub000/internal/doi"
)

// WriteDocument persists a freshly fetched document atomically: the
// bytes land in a temp file in the corpus directory and are renamed
// into place, so a concurrent scan sees the file either fully present
// or not at all.
func (c *Corpus) WriteDocument(d string, data []byte) error {
	name, err := doi.ToFilename(d)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "."+name+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(c.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
