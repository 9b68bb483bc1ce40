// Package filetype decides whether an upload can be analyzed, using magic
// bytes rather than the client's claims wherever possible.
package filetype

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const (
	MIMEPDF    = "application/pdf"
	MIMEDOCX   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEMSWord = "application/msword"

	// DefaultMaxSize is the largest accepted upload, 20 MiB.
	DefaultMaxSize int64 = 20 << 20
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrLegacyWord      = fmt.Errorf("%w: legacy .doc files are not supported, save the document as .docx or PDF", ErrUnsupportedType)
	ErrTooLarge        = errors.New("file too large")
)

// Kind is the extraction route for a supported file.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// FileTypeInfo contains detected file type information
type FileTypeInfo struct {
	MIMEType    string
	Extension   string
	Kind        Kind
	Description string
}

// Detector handles file type detection using magic bytes
type Detector struct {
	maxSize int64
}

// New creates a detector that rejects files above maxSize bytes.
func New(maxSize int64) *Detector {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Detector{maxSize: maxSize}
}

func (d *Detector) MaxSize() int64 { return d.maxSize }

// CheckSize rejects sizes above the limit.
func (d *Detector) CheckSize(size int64) error {
	if size > d.maxSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, size, d.maxSize)
	}
	return nil
}

// CheckDeclared rejects a client-declared type that is refused outright,
// before any bytes are read.
func CheckDeclared(declared string) error {
	if strings.EqualFold(strings.TrimSpace(declared), MIMEMSWord) {
		return ErrLegacyWord
	}
	return nil
}

// Check runs every pre-parse check on an upload: declared type, size, then
// the sniffed type of head. head should hold the start of the file; the
// whole file works too.
func (d *Detector) Check(head []byte, fileName, declared string, size int64) (*FileTypeInfo, error) {
	if err := CheckDeclared(declared); err != nil {
		return nil, err
	}
	if err := d.CheckSize(size); err != nil {
		return nil, err
	}
	return d.Detect(head, fileName)
}

// Detect detects the actual file type using magic bytes, with the file name
// extension settling ZIP and OLE containers.
func (d *Detector) Detect(head []byte, fileName string) (*FileTypeInfo, error) {
	mtype := mimetype.Detect(head)
	mimeType := mtype.String()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	extension := mtype.Extension()
	ext := strings.ToLower(filepath.Ext(fileName))

	log.Debug().Str("mime", mimeType).Str("ext", extension).Str("file", fileName).Msg("detected file type")

	// Office formats are ZIP or OLE containers underneath
	switch mimeType {
	case "application/zip", "application/x-zip-compressed":
		if ext == ".docx" {
			log.Debug().Str("original", mimeType).Msg("overriding ZIP detection based on extension")
			mimeType, extension = MIMEDOCX, ".docx"
		}
	case "application/x-ole-storage", "application/x-cfb":
		if ext == ".doc" {
			mimeType, extension = MIMEMSWord, ".doc"
		}
	}

	info := &FileTypeInfo{MIMEType: mimeType, Extension: extension}
	switch mimeType {
	case MIMEPDF:
		info.Kind = KindPDF
		info.Description = "PDF document"
	case MIMEDOCX:
		info.Kind = KindDOCX
		info.Description = "Microsoft Word document"
	case MIMEMSWord:
		return nil, ErrLegacyWord
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return info, nil
}
