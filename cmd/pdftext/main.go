// Command pdftext prints the text of a PDF file.
//
// Usage:
//
//	pdftext [flags] file.pdf
//
// Pages are separated by a form feed when the output is not a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/tsawler/pdftext"
	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/model"
)

type config struct {
	path      string
	pages     []int
	strategy  pdftext.StrategyKind
	format    string
	normalize bool
	visible   bool
	region    *model.BBox
	ocr       bool
	lang      string
	verbose   bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "pdftext:", err)
		os.Exit(2)
	}
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(cfg, os.Stdout, os.Stderr, isTerminal); err != nil {
		fmt.Fprintln(os.Stderr, "pdftext:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("pdftext", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pdftext [flags] file.pdf")
		fs.PrintDefaults()
	}

	pages := fs.String("pages", "", "pages to extract, such as 1,3-5 (default all)")
	strategy := fs.String("strategy", "simple", "text strategy: simple, location or fragments")
	format := fs.String("format", "text", "output format: text or html")
	region := fs.String("region", "", "only text crossing the box x,y,width,height in points")
	cfg := &config{}
	fs.BoolVar(&cfg.normalize, "normalize", false, "normalize output to Unicode NFC")
	fs.BoolVar(&cfg.visible, "visible", false, "skip invisible text")
	fs.BoolVar(&cfg.ocr, "ocr", false, "recognise images on pages without text")
	fs.StringVar(&cfg.lang, "lang", "eng", "OCR languages, such as eng+fra")
	fs.BoolVar(&cfg.verbose, "v", false, "log details and print counters to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one file")
	}
	cfg.path = fs.Arg(0)

	var err error
	if cfg.pages, err = parsePages(*pages); err != nil {
		return nil, err
	}
	var ok bool
	if cfg.strategy, ok = pdftext.ParseStrategy(*strategy); !ok {
		return nil, fmt.Errorf("unknown strategy %q", *strategy)
	}
	switch *format {
	case "text", "html":
		cfg.format = *format
	default:
		return nil, fmt.Errorf("unknown format %q", *format)
	}
	if *region != "" {
		box, err := parseRegion(*region)
		if err != nil {
			return nil, err
		}
		cfg.region = &box
	}
	return cfg, nil
}

// parsePages reads a list such as "1,3-5". An empty list selects all
// pages.
func parsePages(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(part), "-")
		first, err := strconv.Atoi(lo)
		if err != nil || first < 1 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(hi)
			if err != nil || last < first {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		for p := first; p <= last; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func parseRegion(s string) (model.BBox, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return model.BBox{}, fmt.Errorf("invalid region %q: want x,y,width,height", s)
	}
	var v [4]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return model.BBox{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		v[i] = x
	}
	if v[2] <= 0 || v[3] <= 0 {
		return model.BBox{}, fmt.Errorf("invalid region %q: empty box", s)
	}
	return model.NewBBox(v[0], v[1], v[2], v[3]), nil
}

func run(cfg *config, stdout, stderr io.Writer, isTerminal bool) error {
	level := slog.LevelError
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	counters := metrics.NewMemory()

	ext := pdftext.Open(cfg.path).
		Pages(cfg.pages...).
		Strategy(cfg.strategy).
		Logger(logger).
		Metrics(counters)
	if cfg.normalize {
		ext = ext.Normalize()
	}
	if cfg.visible {
		ext = ext.VisibleOnly()
	}
	if cfg.region != nil {
		ext = ext.Region(*cfg.region)
	}
	if cfg.ocr {
		ext = ext.OCR(cfg.lang)
	}

	var warnings []pdftext.Warning
	var err error
	if cfg.format == "html" {
		warnings, err = ext.HTML(stdout)
	} else {
		warnings, err = writeText(ext, stdout, isTerminal)
	}
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintln(stderr, "warning:", w)
	}
	if cfg.verbose {
		for _, name := range counters.Names() {
			fmt.Fprintf(stderr, "%-32s %d\n", name, counters.Value(name))
		}
	}
	return nil
}

func writeText(ext *pdftext.Extractor, w io.Writer, isTerminal bool) ([]pdftext.Warning, error) {
	pages, warnings, err := ext.PageTexts()
	if err != nil {
		return warnings, err
	}
	sep := "\f"
	if isTerminal {
		sep = "\n"
	}
	for i, p := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, sep); err != nil {
				return warnings, err
			}
		}
		if _, err := io.WriteString(w, p+"\n"); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}
