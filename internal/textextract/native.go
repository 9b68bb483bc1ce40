package textextract

import (
	"os"

	"github.com/ledongthuc/pdf"
)

// NativeOpener opens PDFs with the pure Go ledongthuc/pdf reader, for builds
// where MuPDF is not available.
type NativeOpener struct{}

func (NativeOpener) Open(path string) (Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := pdf.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &nativeDoc{f: f, r: r}, nil
}

type nativeDoc struct {
	f *os.File
	r *pdf.Reader
}

func (d *nativeDoc) NumPage() int { return d.r.NumPage() }

// PageText takes a zero-based index; the reader counts pages from 1.
func (d *nativeDoc) PageText(i int) (string, error) {
	p := d.r.Page(i + 1)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err == nil {
		return text, nil
	}
	// Some fonts break GetPlainText; the raw content stream still has the runs.
	var out []byte
	for _, t := range p.Content().Text {
		out = append(out, t.S...)
		out = append(out, ' ')
	}
	if len(out) == 0 {
		return "", err
	}
	return string(out), nil
}

func (d *nativeDoc) Close() error { return d.f.Close() }
