package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var testFiles = []string{
	"journal.pbio.2001414.xml",
	"journal.pone.0123456.xml",
	"journal.pone.1000001.xml",
	"plos.correction.3155a3e9-5fbe-435c-a07a-e9a4846ec0b6.xml",
}

// newTestCorpus builds a directory holding testFiles plus files every
// scan must ignore.
func newTestCorpus(t *testing.T) *Corpus {
	t.Helper()
	dir := t.TempDir()
	for _, name := range testFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<article/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{".DS_Store", ".hidden.xml", "notes.txt", ".journal.pone.9999999.xml.tmp1"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	return New(dir)
}

func TestFiles(t *testing.T) {
	c := newTestCorpus(t)

	files, err := c.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != len(testFiles) {
		t.Fatalf("Files() = %v, want %v", files, testFiles)
	}
	for i, want := range testFiles {
		if files[i] != want {
			t.Errorf("Files()[%d] = %q, want %q (sorted)", i, files[i], want)
		}
	}
}

func TestFilesReflectsCurrentDirectory(t *testing.T) {
	c := newTestCorpus(t)

	n, err := c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(testFiles) {
		t.Fatalf("Len() = %d, want %d", n, len(testFiles))
	}

	// No caching across calls: a new file shows up on the next scan.
	if err := os.WriteFile(filepath.Join(c.Dir(), "journal.pgen.0000001.xml"), []byte("<article/>"), 0644); err != nil {
		t.Fatal(err)
	}
	n, err = c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(testFiles)+1 {
		t.Errorf("Len() after write = %d, want %d", n, len(testFiles)+1)
	}
}

func TestLenMatchesIndexableRange(t *testing.T) {
	// A stray extension-matching file that is not a document must not
	// push Len past the range At and Slice can address.
	c := newTestCorpus(t)
	if err := os.WriteFile(filepath.Join(c.Dir(), "notadoi.xml"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(testFiles) {
		t.Errorf("Len() = %d, want %d (stray file excluded)", n, len(testFiles))
	}
	if _, err := c.At(n - 1); err != nil {
		t.Errorf("At(Len()-1) = %v, want last document", err)
	}
	if _, err := c.At(n); err == nil {
		t.Error("At(Len()) accepted out-of-range index")
	}
}

func TestDOIs(t *testing.T) {
	c := newTestCorpus(t)

	dois, err := c.DOIs()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"10.1371/journal.pbio.2001414",
		"10.1371/journal.pone.0123456",
		"10.1371/journal.pone.1000001",
		"10.1371/annotation/3155a3e9-5fbe-435c-a07a-e9a4846ec0b6",
	}
	if len(dois) != len(want) {
		t.Fatalf("DOIs() = %v", dois)
	}
	for i := range want {
		if dois[i] != want[i] {
			t.Errorf("DOIs()[%d] = %q, want %q", i, dois[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	c := newTestCorpus(t)

	present := "10.1371/journal.pone.1000001"
	absent := "10.1371/journal.pone.7777777"

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"present doi", present, true},
		{"present filename", "journal.pone.1000001.xml", true},
		{"present absolute path", filepath.Join(c.Dir(), "journal.pone.1000001.xml"), true},
		{"absent doi", absent, false},
		{"absent filename", "journal.pone.7777777.xml", false},
		{"absent absolute path", filepath.Join(c.Dir(), "journal.pone.7777777.xml"), false},
		{"path outside corpus dir", filepath.Join(os.TempDir(), "elsewhere", "journal.pone.1000001.xml"), false},
		{"hidden file never a member", ".hidden.xml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.key); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestAtAndSlice(t *testing.T) {
	c := newTestCorpus(t)

	a, err := c.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if a.DOI() != "10.1371/journal.pbio.2001414" {
		t.Errorf("At(0).DOI() = %q", a.DOI())
	}

	if _, err := c.At(99); err == nil {
		t.Error("At(99) accepted out-of-range index")
	}

	articles, err := c.Slice(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 || articles[0].DOI() != "10.1371/journal.pone.0123456" {
		t.Errorf("Slice(1, 3) = %v", articles)
	}

	if _, err := c.Slice(3, 1); err == nil {
		t.Error("Slice(3, 1) accepted inverted bounds")
	}
}

func TestGetNotFound(t *testing.T) {
	c := newTestCorpus(t)

	_, err := c.Get("10.1371/journal.pone.7777777")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Get() error = %v, want NotFoundError", err)
	}
	wantPath := filepath.Join(c.Dir(), "journal.pone.7777777.xml")
	if nf.Path != wantPath {
		t.Errorf("NotFoundError.Path = %q, want %q", nf.Path, wantPath)
	}
}

func TestGetPresent(t *testing.T) {
	c := newTestCorpus(t)

	a, err := c.Get("10.1371/journal.pone.1000001")
	if err != nil {
		t.Fatal(err)
	}
	if a.Filename() != "journal.pone.1000001.xml" {
		t.Errorf("Get().Filename() = %q", a.Filename())
	}
}
