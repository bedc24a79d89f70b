package attachment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCandidateFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := CandidateFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "notes.txt" || c.SizeBytes != 5 || c.MimeType != "text/plain" || string(c.Content) != "hello" {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestCandidateFromFileOversized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(MaxFileBytes + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c, err := CandidateFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Content != nil || c.SizeBytes != MaxFileBytes+1 {
		t.Fatalf("oversized file should not be read: size %d content %d", c.SizeBytes, len(c.Content))
	}
	if reason := Check(c); reason != RejectSize {
		t.Fatalf("Check = %q, want size rejection", reason)
	}
}

func TestCandidateFromFileErrors(t *testing.T) {
	if _, err := CandidateFromFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := CandidateFromFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}
