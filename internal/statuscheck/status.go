package statuscheck

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Pinger models the minimal capability we need from Redis or the archive.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Cooldown reports whether the backend is resting after a 429 or 402.
// *breaker.Breaker implements it.
type Cooldown interface {
	IsOpen(ctx context.Context, provider, model string) (bool, string)
}

// Backend describes the configured structured-output backend. An empty
// Provider means pattern extraction only.
type Backend struct {
	Provider      string
	Model         string
	HasCredential bool
}

// Options configures the Checker. Nil pingers mark the component as not
// configured.
type Options struct {
	Redis     Pinger
	Archive   Pinger
	Backend   Backend
	Cooldown  Cooldown
	PDFEngine string
}

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses. OK is false when a configured
// store or the archive is unreachable; a degraded backend only lowers
// extraction quality and does not count.
type Summary struct {
	OK        bool   `json:"ok"`
	Redis     Status `json:"redis"`
	Archive   Status `json:"archive"`
	Backend   Status `json:"backend"`
	PDFEngine Status `json:"pdf_engine"`
}

// Checker aggregates health checks for the service's dependencies.
type Checker struct {
	opts Options
}

func New(opts Options) *Checker {
	return &Checker{opts: opts}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
	s := Summary{
		Redis:     c.checkRedis(ctx),
		Archive:   c.checkArchive(ctx),
		Backend:   c.checkBackend(ctx),
		PDFEngine: c.checkPDFEngine(),
	}
	s.OK = s.Redis.OK && s.Archive.OK
	return s
}

func (c *Checker) checkRedis(ctx context.Context) Status {
	if c.opts.Redis == nil {
		return Status{OK: true, Message: "Not configured, using memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.opts.Redis.Ping(ctx); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkArchive(ctx context.Context) Status {
	if c.opts.Archive == nil {
		return Status{OK: true, Message: "Disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.opts.Archive.Ping(ctx); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkBackend(ctx context.Context) Status {
	b := c.opts.Backend
	if b.Provider == "" {
		return Status{OK: true, Message: "Not configured, pattern extraction only"}
	}
	if !b.HasCredential {
		return Status{OK: false, Message: "API key missing"}
	}
	if c.opts.Cooldown != nil {
		if open, reason := c.opts.Cooldown.IsOpen(ctx, b.Provider, b.Model); open {
			return Status{OK: false, Message: "Cooling down after " + reason}
		}
	}
	return Status{OK: true, Message: fmt.Sprintf("Available (%s)", b.Provider)}
}

func (c *Checker) checkPDFEngine() Status {
	switch c.opts.PDFEngine {
	case "fitz":
		return Status{OK: true, Message: "MuPDF"}
	case "native":
		return Status{OK: true, Message: "Pure Go"}
	}
	return Status{OK: false, Message: fmt.Sprintf("Unknown engine %q", c.opts.PDFEngine)}
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
