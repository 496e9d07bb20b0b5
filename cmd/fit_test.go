package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestReadSamples(t *testing.T) {
	set, err := readSamples(writeCSV(t, "120,850,120\n121.5,860,125\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("got %d samples", len(set))
	}
	if set[1].V != 121.5 || set[1].P != 860 || set[1].Q != 125 {
		t.Fatalf("sample = %+v", set[1])
	}
}

func TestReadSamplesSkipsHeader(t *testing.T) {
	set, err := readSamples(writeCSV(t, "v,p,q\n120,850,120\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("got %d samples", len(set))
	}
}

func TestReadSamplesRejectsBadRows(t *testing.T) {
	if _, err := readSamples(writeCSV(t, "120,850\n")); err == nil {
		t.Fatal("expected error for short row")
	}
	if _, err := readSamples(writeCSV(t, "120,850,120\nx,860,125\n")); err == nil {
		t.Fatal("expected error for non-numeric field past the header")
	}
}

func TestReadSamplesMissingFile(t *testing.T) {
	if _, err := readSamples(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
