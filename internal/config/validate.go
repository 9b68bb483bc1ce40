package config

import (
	"fmt"
	"net/url"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case ProviderGateway, ProviderAnthropic, ProviderNone:
	default:
		return fmt.Errorf("backend.provider must be gateway, anthropic or none (got %q)", c.Backend.Provider)
	}
	if c.Backend.GatewayURL != "" {
		if u, err := url.Parse(c.Backend.GatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend.gateway_url is not an absolute URL: %q", c.Backend.GatewayURL)
		}
	}
	if c.Backend.MaxInputChars < 50 {
		return fmt.Errorf("backend.max_input_chars must be >= 50 (got %d)", c.Backend.MaxInputChars)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be > 0 (got %s)", c.Backend.Timeout)
	}

	if c.Breaker.BaseBackoff <= 0 || c.Breaker.MaxBackoff < c.Breaker.BaseBackoff {
		return fmt.Errorf("breaker backoff must satisfy 0 < base <= max (got %s, %s)", c.Breaker.BaseBackoff, c.Breaker.MaxBackoff)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}
	if c.Server.MaxInflight <= 0 {
		return fmt.Errorf("server.max_inflight must be > 0 (got %d)", c.Server.MaxInflight)
	}

	switch c.Extraction.PDFEngine {
	case "fitz", "native":
	default:
		return fmt.Errorf("extraction.pdf_engine must be fitz or native (got %q)", c.Extraction.PDFEngine)
	}

	if c.Axiom.Send && (c.Axiom.APIKey == "" || c.Axiom.Dataset == "") {
		return fmt.Errorf("axiom: SEND_LOGS_TO_AXIOM requires AXIOM_API_KEY and AXIOM_DATASET")
	}
	return nil
}
