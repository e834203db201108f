// Package archive handles bulk mirror snapshots: a compressed archive
// with one member per document plus a small metadata sidecar recording
// when the snapshot was made and how large it claims to be.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PLOS/allofplos-sub000/internal/corpus"
	"github.com/PLOS/allofplos-sub000/internal/doi"
)

// InfoFile is the metadata sidecar filename, stored next to the
// snapshot archive.
const InfoFile = "zipinfo.yml"

// Info is the snapshot metadata sidecar.
type Info struct {
	CreatedAt time.Time `yaml:"created_at"`
	SizeBytes int64     `yaml:"size_bytes"`
}

// ReadInfo loads the metadata sidecar next to the given archive path.
func ReadInfo(zipPath string) (*Info, error) {
	data, err := os.ReadFile(infoPath(zipPath))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing snapshot metadata: %w", err)
	}
	return &info, nil
}

// WriteInfo writes the metadata sidecar next to the given archive path.
func WriteInfo(zipPath string, info Info) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding snapshot metadata: %w", err)
	}
	if err := os.WriteFile(infoPath(zipPath), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot metadata: %w", err)
	}
	return nil
}

func infoPath(zipPath string) string {
	return filepath.Join(filepath.Dir(zipPath), InfoFile)
}

// Extract unpacks every document member of a snapshot into the corpus
// directory, writing each atomically. Non-document members (metadata,
// directories) are skipped. Returns the number of documents written.
func Extract(zipPath string, c *corpus.Corpus) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("opening snapshot: %w", err)
	}
	defer r.Close()

	written := 0
	for _, member := range r.File {
		name := filepath.Base(member.Name)
		if member.FileInfo().IsDir() || !strings.HasSuffix(name, doi.Extension) {
			continue
		}
		d, err := doi.FromFilename(name)
		if err != nil {
			continue // not a document member
		}

		f, err := member.Open()
		if err != nil {
			return written, fmt.Errorf("opening member %s: %w", member.Name, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return written, fmt.Errorf("reading member %s: %w", member.Name, err)
		}

		if err := c.WriteDocument(d, data); err != nil {
			return written, fmt.Errorf("extracting %s: %w", d, err)
		}
		written++
	}
	return written, nil
}

// Create packs every document of a corpus into a snapshot archive and
// writes the metadata sidecar. Returns the recorded metadata.
func Create(c *corpus.Corpus, zipPath string) (*Info, error) {
	files, err := c.Files()
	if err != nil {
		return nil, err
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(c.Dir(), name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		member, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := member.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing snapshot: %w", err)
	}

	stat, err := out.Stat()
	if err != nil {
		return nil, fmt.Errorf("sizing snapshot: %w", err)
	}
	info := &Info{CreatedAt: time.Now().UTC(), SizeBytes: stat.Size()}
	if err := WriteInfo(zipPath, *info); err != nil {
		return nil, err
	}
	return info, nil
}
