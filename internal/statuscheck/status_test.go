package statuscheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type cooldown struct {
	open   bool
	reason string
}

func (c cooldown) IsOpen(context.Context, string, string) (bool, string) { return c.open, c.reason }

func ok(context.Context) error { return nil }

func TestSummary_Defaults(t *testing.T) {
	t.Parallel()

	s := New(Options{PDFEngine: "fitz"}).Summary(context.Background())
	assert.True(t, s.OK)
	assert.Equal(t, Status{OK: true, Message: "Not configured, using memory"}, s.Redis)
	assert.Equal(t, Status{OK: true, Message: "Disabled"}, s.Archive)
	assert.Equal(t, Status{OK: true, Message: "Not configured, pattern extraction only"}, s.Backend)
	assert.Equal(t, Status{OK: true, Message: "MuPDF"}, s.PDFEngine)
}

func TestSummary_Failures(t *testing.T) {
	t.Parallel()

	long := errors.New(strings.Repeat("x", 300))
	s := New(Options{
		Redis:     PingFunc(func(context.Context) error { return errors.New("connection refused") }),
		Archive:   PingFunc(func(context.Context) error { return long }),
		Backend:   Backend{Provider: "gateway", Model: "m"},
		PDFEngine: "poppler",
	}).Summary(context.Background())

	assert.False(t, s.OK)
	assert.Equal(t, Status{OK: false, Message: "connection refused"}, s.Redis)
	assert.False(t, s.Archive.OK)
	assert.Len(t, s.Archive.Message, 120)
	assert.Equal(t, Status{OK: false, Message: "API key missing"}, s.Backend)
	assert.False(t, s.PDFEngine.OK)
}

func TestSummary_Backend(t *testing.T) {
	t.Parallel()

	b := Backend{Provider: "anthropic", Model: "claude", HasCredential: true}
	s := New(Options{Redis: PingFunc(ok), Archive: PingFunc(ok), Backend: b, PDFEngine: "native"}).Summary(context.Background())
	assert.True(t, s.OK)
	assert.Equal(t, Status{OK: true, Message: "Connected"}, s.Redis)
	assert.Equal(t, Status{OK: true, Message: "Available (anthropic)"}, s.Backend)

	s = New(Options{Backend: b, Cooldown: cooldown{open: true, reason: "rate_limited"}, PDFEngine: "native"}).Summary(context.Background())
	assert.True(t, s.OK, "a resting backend does not fail readiness")
	assert.Equal(t, Status{OK: false, Message: "Cooling down after rate_limited"}, s.Backend)
}

func TestTrimError_Timeout(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "timeout", trimError(context.DeadlineExceeded))
	assert.Empty(t, trimError(nil))
}
