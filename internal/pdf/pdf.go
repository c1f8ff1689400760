// Package pdf turns an uploaded PDF into plain text and document metadata.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
	"github.com/thywilljoshua/pdf-study/internal/text"
)

var (
	ErrTooLarge   = errors.New("file exceeds the size limit")
	ErrNotPDF     = errors.New("invalid PDF file format")
	ErrUnreadable = errors.New("failed to read PDF, the file might be corrupted or password protected")
)

// Unknown stands in for metadata fields the document does not carry.
const Unknown = "Unknown"

type Options struct {
	MaxBytes int64
	MaxPages int
	Clean    bool
}

func OptionsFrom(cfg config.PDFConfig) Options {
	return Options{MaxBytes: cfg.MaxFileBytes(), MaxPages: cfg.MaxPages, Clean: cfg.Clean}
}

type Metadata struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Subject      string `json:"subject"`
	Creator      string `json:"creator"`
	Producer     string `json:"producer"`
	CreationDate string `json:"creation_date"`
	Pages        int    `json:"num_pages"`
}

// Document is the extracted content of one file.
type Document struct {
	Text     string
	Metadata Metadata
	// Processed is the number of pages read, at most Options.MaxPages.
	Processed int
	// Skipped lists 1-based pages whose text could not be extracted.
	Skipped []int
}

type Extractor struct {
	opts Options
	log  logger.Logger
}

func NewExtractor(opts Options, log logger.Logger) *Extractor {
	return &Extractor{opts: opts, log: log}
}

// Open reads and extracts the PDF at path. The size limit is checked
// before the file is read.
func (e *Extractor) Open(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if err := e.checkSize(fi.Size()); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return e.Extract(ctx, data)
}

func (e *Extractor) checkSize(n int64) error {
	if e.opts.MaxBytes > 0 && n > e.opts.MaxBytes {
		return fmt.Errorf("%w: %.2fMB exceeds maximum allowed size of %.0fMB",
			ErrTooLarge, float64(n)/(1<<20), float64(e.opts.MaxBytes)/(1<<20))
	}
	return nil
}

// Extract validates data and returns the text of its first MaxPages pages,
// trimmed and joined by blank lines. Pages that fail are skipped and
// logged. A PDF without any text yields an empty Text and no error.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	if err := e.checkSize(int64(len(data))); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, ErrNotPDF
	}

	r, err := openReader(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	doc := &Document{Metadata: e.metadata(data)}
	total := r.NumPage()
	if doc.Metadata.Pages == 0 {
		doc.Metadata.Pages = total
	}
	n := total
	if e.opts.MaxPages > 0 && n > e.opts.MaxPages {
		n = e.opts.MaxPages
		e.log.Warn("processing only first %d pages of %d", n, total)
	}

	var parts []string
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := pageText(r.Page(i))
		if err != nil {
			e.log.Error("error processing page %d: %v", i, err)
			doc.Skipped = append(doc.Skipped, i)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	doc.Processed = n
	doc.Text = strings.Join(parts, "\n\n")
	if e.opts.Clean {
		doc.Text = text.CleanParagraphs(doc.Text)
	}
	return doc, nil
}

// openReader guards against the reader panicking on malformed
// cross-reference data.
func openReader(data []byte) (r *rpdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("malformed document: %v", p)
		}
	}()
	return rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// metadata reads the Info dictionary with pdfcpu. Failure is not fatal:
// every field falls back to Unknown and Pages to zero.
func (e *Extractor) metadata(data []byte) Metadata {
	md := Metadata{
		Title: Unknown, Author: Unknown, Subject: Unknown,
		Creator: Unknown, Producer: Unknown, CreationDate: Unknown,
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pdfContext, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		e.log.Warn("could not extract metadata: %v", err)
		return md
	}
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&md.Title, pdfContext.Title)
	set(&md.Author, pdfContext.Author)
	set(&md.Subject, pdfContext.Subject)
	set(&md.Creator, pdfContext.Creator)
	set(&md.Producer, pdfContext.Producer)
	set(&md.CreationDate, pdfContext.XRefTable.CreationDate)
	md.Pages = pdfContext.PageCount
	return md
}

// pageText lays out the glyphs of one page. A line break is inserted when
// the baseline moves by more than half the font size, a space when glyphs
// are separated horizontally.
func pageText(p rpdf.Page) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	if p.V.IsNull() {
		return "", errors.New("missing page object")
	}
	var b strings.Builder
	glyphs := p.Content().Text
	var prev *rpdf.Text
	for i := range glyphs {
		t := &glyphs[i]
		if prev != nil {
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > prev.FontSize*0.2 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String(), nil
}
