package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/filetype"
	"github.com/local/syllabusparser/internal/store"
	"github.com/local/syllabusparser/internal/textextract"
)

const (
	msgRateLimited     = "Rate limit exceeded. Please try again later."
	msgPaymentRequired = "Payment required. Please add credits to the AI backend account."
)

var errBadRequest = errors.New("bad request")

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

// statusFor maps pipeline errors to HTTP statuses and user-facing messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, filetype.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, filetype.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, textextract.ErrAcquisition):
		return http.StatusUnprocessableEntity, "could not read text from the document"
	case errors.Is(err, ai.ErrTextTooShort):
		return http.StatusBadRequest, "Document text is too short or empty"
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, ai.ErrPaymentRequired):
		return http.StatusPaymentRequired, msgPaymentRequired
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, analyzer.ErrExtractionFailed):
		return http.StatusInternalServerError, analyzer.ErrExtractionFailed.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func fail(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	writeError(w, status, msg)
}

// rejectReason is the uploads_rejected_total label for err, or "" when err
// is not a rejection.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, filetype.ErrLegacyWord):
		return "legacy_word"
	case errors.Is(err, filetype.ErrTooLarge):
		return "too_large"
	case errors.Is(err, filetype.ErrUnsupportedType):
		return "unsupported"
	case errors.Is(err, textextract.ErrAcquisition):
		return "acquisition"
	}
	return ""
}

const maxJSONBody = 4 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", errBadRequest, err)
	}
	return nil
}
