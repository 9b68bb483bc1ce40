// Package textextract turns an uploaded PDF or DOCX file into plain text
// with a per-page breakdown.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/filetype"
)

// ErrAcquisition marks a file that could not be read as a document.
var ErrAcquisition = errors.New("could not read document")

// SparseTextThreshold is the character count below which a PDF is logged
// as probably scanned.
const SparseTextThreshold = 300

// Engine names the PDF backend.
type Engine string

const (
	EngineFitz   Engine = "fitz"
	EngineNative Engine = "native"
)

type Page struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Document is the acquired text. Content is every page joined by newlines.
type Document struct {
	Content string `json:"content"`
	Pages   []Page `json:"pages"`
}

// Doc abstracts an open PDF.
type Doc interface {
	NumPage() int
	// PageText returns the text of the zero-based page i.
	PageText(i int) (string, error)
	Close() error
}

// Opener opens a PDF path into a Doc.
type Opener interface {
	Open(path string) (Doc, error)
}

// Extractor reads supported documents from local paths.
type Extractor struct {
	pdf       Opener
	pageCount func(path string) (int, error)
}

// New returns an Extractor using the given PDF engine. Unknown names fall
// back to go-fitz.
func New(engine Engine) *Extractor {
	var o Opener = FitzOpener{}
	if engine == EngineNative {
		o = NativeOpener{}
	}
	return &Extractor{pdf: o, pageCount: PageCount}
}

// NewWithOpener is New with an explicit PDF opener.
func NewWithOpener(o Opener) *Extractor {
	return &Extractor{pdf: o, pageCount: PageCount}
}

// Extract reads the file at path according to kind. Every failure wraps
// ErrAcquisition.
func (e *Extractor) Extract(ctx context.Context, path string, kind filetype.Kind) (Document, error) {
	start := time.Now()
	var (
		doc Document
		err error
	)
	switch kind {
	case filetype.KindPDF:
		doc, err = e.extractPDF(ctx, path)
	case filetype.KindDOCX:
		doc, err = extractDocx(path)
	default:
		return Document{}, fmt.Errorf("%w: %s", filetype.ErrUnsupportedType, kind)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	log.Debug().
		Str("kind", string(kind)).
		Int("pages", len(doc.Pages)).
		Int("chars", len(doc.Content)).
		Dur("elapsed", time.Since(start)).
		Msg("document text acquired")
	return doc, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (Document, error) {
	d, err := e.pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}
	defer d.Close()

	total := d.NumPage()
	if total <= 0 {
		return Document{}, errors.New("pdf has no pages")
	}

	pages := make([]Page, 0, total)
	chars := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		text, err := d.PageText(i)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("page text extraction failed")
			text = ""
		}
		text = Collapse(text)
		chars += len([]rune(text))
		pages = append(pages, Page{PageNumber: i + 1, Content: text})
	}

	if e.pageCount != nil {
		if n, err := e.pageCount(path); err != nil {
			log.Debug().Err(err).Msg("pdfcpu page count unavailable")
		} else if n != total {
			log.Warn().Int("engine_pages", total).Int("pdfcpu_pages", n).Msg("page count mismatch")
		}
	}
	if chars < SparseTextThreshold {
		log.Warn().Int("chars", chars).Int("pages", total).Msg("little extractable text, document may be scanned")
	}
	return join(pages), nil
}

func join(pages []Page) Document {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Content
	}
	return Document{Content: strings.Join(parts, "\n"), Pages: pages}
}

// Collapse squeezes every whitespace run to one character: a newline when
// the run spans a line break, otherwise a space. The result is trimmed.
func Collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace, sawNewline := false, false
	flush := func() {
		if !inSpace {
			return
		}
		if b.Len() > 0 {
			if sawNewline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		inSpace, sawNewline = false, false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			if r == '\n' || r == '\r' {
				sawNewline = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	return b.String()
}
