package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PLOS/allofplos-sub000/internal/corpus"
)

func TestCreateExtractRoundTrip(t *testing.T) {
	src := corpus.New(t.TempDir())
	docs := map[string]string{
		"10.1371/journal.pone.1000001": "<article>one</article>",
		"10.1371/journal.pbio.2001414": "<article>two</article>",
		"10.1371/annotation/3155a3e9-5fbe-435c-a07a-e9a4846ec0b6": "<article>fix</article>",
	}
	for d, body := range docs {
		if err := src.WriteDocument(d, []byte(body)); err != nil {
			t.Fatal(err)
		}
	}

	zipPath := filepath.Join(t.TempDir(), "corpus.zip")
	info, err := Create(src, zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("Info.SizeBytes = %d", info.SizeBytes)
	}
	if time.Since(info.CreatedAt) > time.Minute {
		t.Errorf("Info.CreatedAt = %v", info.CreatedAt)
	}

	dest := corpus.New(t.TempDir())
	n, err := Extract(zipPath, dest)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(docs) {
		t.Errorf("Extract wrote %d documents, want %d", n, len(docs))
	}

	for d, body := range docs {
		a, err := dest.Get(d)
		if err != nil {
			t.Errorf("Get(%s) after extract: %v", d, err)
			continue
		}
		data, err := os.ReadFile(a.Path())
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != body {
			t.Errorf("extracted %s = %q, want %q", d, data, body)
		}
	}
}

func TestExtractSkipsNonDocuments(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "corpus.zip")

	out, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(out)
	for name, body := range map[string]string{
		"journal.pone.1000001.xml": "<article/>",
		"zipinfo.yml":              "created_at: 2020-01-01T00:00:00Z",
		"README.txt":               "not a document",
		"nested/notadoi.xml":       "<junk/>",
	} {
		member, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := member.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	out.Close()

	dest := corpus.New(t.TempDir())
	n, err := Extract(zipPath, dest)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Extract wrote %d members, want 1", n)
	}
}

func TestInfoRoundTrip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "corpus.zip")

	want := Info{
		CreatedAt: time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC),
		SizeBytes: 123456,
	}
	if err := WriteInfo(zipPath, want); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInfo(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.SizeBytes != want.SizeBytes {
		t.Errorf("ReadInfo() = %+v, want %+v", got, want)
	}
}

func TestReadInfoMissing(t *testing.T) {
	if _, err := ReadInfo(filepath.Join(t.TempDir(), "corpus.zip")); err == nil {
		t.Error("ReadInfo on missing sidecar should fail")
	}
}
