package filetype

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body/></w:document>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var pdfHead = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func TestDetect(t *testing.T) {
	t.Parallel()
	d := New(0)

	info, err := d.Detect(pdfHead, "syllabus.pdf")
	require.NoError(t, err)
	assert.Equal(t, KindPDF, info.Kind)
	assert.Equal(t, MIMEPDF, info.MIMEType)

	// the name does not matter for PDFs
	info, err = d.Detect(pdfHead, "syllabus.txt")
	require.NoError(t, err)
	assert.Equal(t, KindPDF, info.Kind)

	info, err = d.Detect(docxBytes(t), "Syllabus.DOCX")
	require.NoError(t, err)
	assert.Equal(t, KindDOCX, info.Kind)

	_, err = d.Detect([]byte("just some plain text in a file"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDetect_LegacyWord(t *testing.T) {
	t.Parallel()

	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 1024)...)
	_, err := New(0).Detect(ole, "old.doc")
	assert.ErrorIs(t, err, ErrLegacyWord)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestCheck_RejectsBeforeSniffing(t *testing.T) {
	t.Parallel()
	d := New(0)

	// a declared legacy type is refused even when the bytes look fine
	_, err := d.Check(pdfHead, "syllabus.pdf", "application/msword", 100)
	assert.ErrorIs(t, err, ErrLegacyWord)

	_, err = d.Check(pdfHead, "syllabus.pdf", "application/pdf", DefaultMaxSize+1)
	assert.True(t, errors.Is(err, ErrTooLarge))

	info, err := d.Check(pdfHead, "syllabus.pdf", "application/pdf", DefaultMaxSize)
	require.NoError(t, err)
	assert.Equal(t, KindPDF, info.Kind)
}

func TestCheckSize(t *testing.T) {
	t.Parallel()
	d := New(10)
	assert.Equal(t, int64(10), d.MaxSize())
	assert.NoError(t, d.CheckSize(10))
	assert.ErrorIs(t, d.CheckSize(11), ErrTooLarge)
}
