package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/pdftext"
	"github.com/tsawler/pdftext/internal/pdftest"
	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/model"
)

func writeDoc(t *testing.T, contents ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdftest.Document(contents...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestParsePages tests page list parsing.
func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"2", []int{2}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 4 , 2 ", []int{4, 2}, false},
		{"0", nil, true},
		{"5-3", nil, true},
		{"a", nil, true},
		{"1-", nil, true},
	}
	for _, tt := range tests {
		got, err := parsePages(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePages(%q): expected error %v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parsePages(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// TestParseRegion tests region parsing.
func TestParseRegion(t *testing.T) {
	got, err := parseRegion("10, 20,300,400.5")
	if err != nil {
		t.Fatalf("parseRegion failed: %v", err)
	}
	if want := model.NewBBox(10, 20, 300, 400.5); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	for _, bad := range []string{"1,2,3", "a,b,c,d", "0,0,0,10"} {
		if _, err := parseRegion(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// TestParseFlags tests flag handling and usage errors.
func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-pages", "1-2", "-strategy", "location", "-format", "html", "-normalize", "-region", "0,0,100,100", "doc.pdf"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if cfg.path != "doc.pdf" || cfg.strategy != pdftext.Location || cfg.format != "html" || !cfg.normalize || cfg.region == nil {
		t.Errorf("unexpected config %+v", cfg)
	}
	if diff := cmp.Diff([]int{1, 2}, cfg.pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}

	bad := [][]string{
		{},
		{"a.pdf", "b.pdf"},
		{"-strategy", "columns", "a.pdf"},
		{"-format", "xml", "a.pdf"},
		{"-pages", "x", "a.pdf"},
		{"-nosuchflag", "a.pdf"},
	}
	for _, args := range bad {
		if _, err := parseFlags(args, io.Discard); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

// TestRun tests text output and page separators.
func TestRun(t *testing.T) {
	path := writeDoc(t,
		"BT /F1 12 Tf 72 720 Td (One) Tj ET",
		"BT /F1 12 Tf 72 720 Td (Two) Tj ET",
	)
	tests := []struct {
		name     string
		terminal bool
		want     string
	}{
		{"pipe", false, "One\n\fTwo\n"},
		{"terminal", true, "One\n\nTwo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := &config{path: path, format: "text"}
			if err := run(cfg, &stdout, &stderr, tt.terminal); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if stderr.Len() != 0 {
				t.Errorf("expected no stderr output, got %q", stderr.String())
			}
		})
	}
}

// TestRunVerbose tests warnings and counters on stderr.
func TestRunVerbose(t *testing.T) {
	path := writeDoc(t,
		"BT /F1 12 Tf 72 720 Td (One) Tj ET",
		"BT /F7 12 Tf 72 720 Td (Two) Tj ET",
	)
	var stdout, stderr bytes.Buffer
	cfg := &config{path: path, format: "text", verbose: true}
	if err := run(cfg, &stdout, &stderr, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	out := stderr.String()
	for _, want := range []string{"warning: page 2", metrics.PagesProcessed, metrics.BytesRead} {
		if !strings.Contains(out, want) {
			t.Errorf("expected stderr to contain %q, got %q", want, out)
		}
	}
}

// TestRunHTML tests HTML output.
func TestRunHTML(t *testing.T) {
	path := writeDoc(t, "BT /F1 12 Tf 72 720 Td (Hello) Tj ET")
	var stdout bytes.Buffer
	cfg := &config{path: path, format: "html"}
	if err := run(cfg, &stdout, io.Discard, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "<p>Hello</p>") {
		t.Errorf("expected HTML paragraph, got %q", stdout.String())
	}
}

// TestRunErrors tests runtime failures.
func TestRunErrors(t *testing.T) {
	cfg := &config{path: filepath.Join(t.TempDir(), "missing.pdf"), format: "text"}
	if err := run(cfg, io.Discard, io.Discard, false); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeDoc(t, "BT /F1 12 Tf 72 720 Td (One) Tj ET")
	cfg = &config{path: path, format: "text", pages: []int{3}}
	if err := run(cfg, io.Discard, io.Discard, false); !errors.Is(err, pdftext.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}
}
