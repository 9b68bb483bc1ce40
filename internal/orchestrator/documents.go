package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/filetype"
	"github.com/local/syllabusparser/internal/metrics"
	"github.com/local/syllabusparser/internal/textextract"
)

const (
	uploadPrefix = "syllabus-upload-"
	sniffLen     = 8 << 10
	// multipart framing and small fields on top of the file itself
	multipartSlack = 1 << 20
	maxNameLen     = 256
	analysisSlot   = "analysis"
)

type upload struct {
	path     string
	fileName string
	declared string
	size     int64
	name     string
}

func (u *upload) remove() {
	if u != nil && u.path != "" {
		_ = os.Remove(u.path)
	}
}

// displayName is the name field when given, keeping the uploaded file's
// extension, else the uploaded file name.
func (u *upload) displayName() string {
	if u.name == "" {
		return u.fileName
	}
	if filepath.Ext(u.name) == "" {
		return u.name + filepath.Ext(u.fileName)
	}
	return u.name
}

type documentInfo struct {
	FileName   string `json:"file_name"`
	MIMEType   string `json:"mime_type"`
	PageCount  int    `json:"page_count"`
	Characters int    `json:"characters"`
}

type documentResp struct {
	AnalysisID    string            `json:"analysis_id"`
	ExtractedData course.CourseData `json:"extractedData"`
	Confidence    float64           `json:"confidence"`
	ExtractionLog []string          `json:"extractionLog"`
	Path          analyzer.Path     `json:"path"`
	Document      documentInfo      `json:"document"`
	ArchiveKey    string            `json:"archive_key,omitempty"`
}

// handleDocumentUpload runs one upload through the whole pipeline. Type and
// size are settled before any text is read from the file.
func (o *Orchestrator) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := o.deps.Detector.MaxSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartSlack)

	up, err := receiveUpload(r, o.deps.Detector)
	if err != nil {
		o.reject(w, err, "")
		return
	}
	defer up.remove()

	head, err := readHead(up.path)
	if err != nil {
		log.Error().Err(err).Msg("read upload head failed")
		writeError(w, http.StatusInternalServerError, "could not read upload")
		return
	}
	info, err := o.deps.Detector.Check(head, up.fileName, up.declared, up.size)
	if err != nil {
		o.reject(w, err, up.fileName)
		return
	}

	ctx := r.Context()
	doc, err := o.deps.Extractor.Extract(ctx, up.path, info.Kind)
	if err != nil {
		o.reject(w, err, up.fileName)
		return
	}

	release, err := o.deps.Limiter.Acquire(ctx, analysisSlot)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	an, err := o.deps.Analyzer.Analyze(ctx, doc.Content)
	release()
	if err != nil {
		fail(w, err)
		return
	}

	if err := o.deps.Analyses.Save(ctx, an); err != nil {
		log.Error().Err(err).Str("analysis_id", an.ID).Msg("save analysis failed")
		writeError(w, http.StatusServiceUnavailable, "could not store analysis")
		return
	}
	if err := o.deps.Pages.SavePages(ctx, an.ID, doc.Pages); err != nil {
		log.Error().Err(err).Str("analysis_id", an.ID).Msg("save pages failed")
		writeError(w, http.StatusServiceUnavailable, "could not store analysis")
		return
	}

	log.Info().
		Str("analysis_id", an.ID).
		Str("file", up.fileName).
		Str("kind", string(info.Kind)).
		Int("pages", len(doc.Pages)).
		Int64("bytes", up.size).
		Msg("document accepted")

	writeJSON(w, http.StatusCreated, documentResp{
		AnalysisID:    an.ID,
		ExtractedData: an.Data,
		Confidence:    an.Confidence,
		ExtractionLog: an.ExtractionLog,
		Path:          an.Path,
		Document: documentInfo{
			FileName:   up.displayName(),
			MIMEType:   info.MIMEType,
			PageCount:  len(doc.Pages),
			Characters: utf8.RuneCountInString(doc.Content),
		},
		ArchiveKey: o.archive(ctx, up, info.MIMEType, an.ID),
	})
}

func (o *Orchestrator) reject(w http.ResponseWriter, err error, fileName string) {
	if reason := rejectReason(err); reason != "" {
		metrics.IncUploadRejected(reason)
		log.Info().Err(err).Str("file", fileName).Str("reason", reason).Msg("upload rejected")
	}
	fail(w, err)
}

// receiveUpload streams the multipart body, writing the file part to a temp
// file. Only the first file part counts.
func receiveUpload(r *http.Request, d *filetype.Detector) (*upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart/form-data", errBadRequest)
	}
	up := &upload{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			up.remove()
			return nil, uploadReadError(err)
		}
		switch part.FormName() {
		case "file":
			if up.path == "" {
				err = saveFilePart(part, up, d)
			}
		case "name":
			var b []byte
			b, err = io.ReadAll(io.LimitReader(part, maxNameLen))
			up.name = filepath.Base(strings.TrimSpace(string(b)))
			if up.name == "." || up.name == string(filepath.Separator) {
				up.name = ""
			}
		}
		_ = part.Close()
		if err != nil {
			up.remove()
			return nil, err
		}
	}
	if up.path == "" {
		return nil, fmt.Errorf("%w: missing file", errBadRequest)
	}
	return up, nil
}

func saveFilePart(part *multipart.Part, up *upload, d *filetype.Detector) error {
	up.fileName = part.FileName()
	up.declared = part.Header.Get("Content-Type")
	if err := filetype.CheckDeclared(up.declared); err != nil {
		return err
	}

	f, err := os.CreateTemp("", uploadPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	up.path = f.Name()
	n, err := io.Copy(f, io.LimitReader(part, d.MaxSize()+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return uploadReadError(err)
	}
	up.size = n
	return d.CheckSize(n)
}

func uploadReadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: request body over %d bytes", filetype.ErrTooLarge, mbe.Limit)
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

// archive stores the upload when an archive is configured. Failures are
// logged and leave the key empty.
func (o *Orchestrator) archive(ctx context.Context, up *upload, contentType, analysisID string) string {
	if o.deps.Archive == nil {
		return ""
	}
	f, err := os.Open(up.path)
	if err != nil {
		log.Warn().Err(err).Str("analysis_id", analysisID).Msg("archive open failed")
		return ""
	}
	defer f.Close()
	key, err := o.deps.Archive.Put(ctx, analysisID, up.displayName(), contentType, f)
	if err != nil {
		log.Warn().Err(err).Str("analysis_id", analysisID).Msg("archive upload failed")
		return ""
	}
	return key
}

func (o *Orchestrator) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	an, err := o.deps.Analyses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, an)
}

type pagesResp struct {
	AnalysisID string             `json:"analysis_id"`
	Pages      []textextract.Page `json:"pages"`
}

func (o *Orchestrator) handleGetPages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pages, err := o.deps.Pages.GetPages(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagesResp{AnalysisID: id, Pages: pages})
}

type analyzeReq struct {
	DocumentText string `json:"documentText"`
}

type analyzeResp struct {
	ExtractedData course.CourseData `json:"extractedData"`
	Confidence    float64           `json:"confidence"`
	ExtractionLog []string          `json:"extractionLog"`
}

// handleAnalyzeSyllabus is the backend-only contract: no pattern fallback,
// rate limit and quota failures surface as 429 and 402.
func (o *Orchestrator) handleAnalyzeSyllabus(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	if _, err := ai.PrepareText(req.DocumentText, 0); err != nil {
		fail(w, err)
		return
	}

	ctx := r.Context()
	release, err := o.deps.Limiter.Acquire(ctx, analysisSlot)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	an, err := o.deps.Analyzer.AnalyzeRemote(ctx, req.DocumentText)
	release()
	if err != nil {
		log.Warn().Err(err).Str("kind", string(ai.Classify(err))).Msg("analyze-syllabus failed")
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		ExtractedData: an.Data,
		Confidence:    an.Confidence,
		ExtractionLog: an.ExtractionLog,
	})
}
