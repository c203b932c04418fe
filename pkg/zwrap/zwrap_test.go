// Test Zwrap
package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/pairmat/pkg/zwrap"
)

const plain = ">s1 andrewsays\nMKVLA\n"

// writeToTmp writes the data, optionally compressed, and returns the name.
func writeToTmp(t *testing.T, data string, gz bool) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "x.faa")
	var buf bytes.Buffer
	if gz {
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(data))
		zw.Close()
	} else {
		buf.WriteString(data)
	}
	if err := os.WriteFile(fname, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestOpen(t *testing.T) {
	for _, gz := range []bool{false, true} {
		fname := writeToTmp(t, plain, gz)
		fz, err := zwrap.Open(fname)
		if err != nil {
			t.Fatal(err)
		}
		if fz.Compressed() != gz {
			t.Error("Expected compressed", gz, "got", fz.Compressed())
		}
		got, err := io.ReadAll(fz)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != plain {
			t.Errorf("gz %v, Expected %q got %q", gz, plain, got)
		}
		if err := fz.Close(); err != nil {
			t.Error("close", err)
		}
		if isgz, err := zwrap.IsGzipped(fname); err != nil || isgz != gz {
			t.Error("IsGzipped Expected", gz, "got", isgz, err)
		}
	}
}

func TestShortFiles(t *testing.T) {
	for _, s := range []string{"", ">"} {
		fname := writeToTmp(t, s, false)
		fz, err := zwrap.Open(fname)
		if err != nil {
			t.Fatal("short file", err)
		}
		got, _ := io.ReadAll(fz)
		fz.Close()
		if string(got) != s {
			t.Errorf("Expected %q got %q", s, got)
		}
	}
}

func TestMissing(t *testing.T) {
	if _, err := zwrap.Open(filepath.Join(t.TempDir(), "nothere")); err == nil {
		t.Fatal("Expected error on missing file")
	}
}
