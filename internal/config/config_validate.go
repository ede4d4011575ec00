// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package config

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
	"time"
)

// MinSigningSecretLength applies in production only.
const MinSigningSecretLength = 16

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStream(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, or production, got %q", c.Server.Environment)
	}
	return nil
}

// validateStream checks the signing policy. A missing signing secret is
// tolerated outside production: the issuer then refuses every internal
// grant instead of emitting unsigned URLs.
func (c *Config) validateStream() error {
	s := c.Stream

	if s.EdgeBaseURL == "" {
		return fmt.Errorf("STREAM_EDGE_BASE_URL is required")
	}
	if err := validateHTTPURL(s.EdgeBaseURL, "STREAM_EDGE_BASE_URL"); err != nil {
		return err
	}

	if s.SigningSecret == "" && c.Server.IsProduction() {
		return fmt.Errorf("STREAM_SIGNING_SECRET is required in production")
	}
	if s.SigningSecret != "" && c.Server.IsProduction() && len(s.SigningSecret) < MinSigningSecretLength {
		return fmt.Errorf("STREAM_SIGNING_SECRET must be at least %d characters in production", MinSigningSecretLength)
	}
	if strings.TrimSpace(s.SigningSecret) != s.SigningSecret {
		return fmt.Errorf("STREAM_SIGNING_SECRET must not have leading or trailing whitespace")
	}

	if s.ValidityWindow < time.Second {
		return fmt.Errorf("STREAM_VALIDITY_WINDOW must be at least 1s, got %v", s.ValidityWindow)
	}
	if s.ValidityWindow%time.Second != 0 {
		return fmt.Errorf("STREAM_VALIDITY_WINDOW must be a whole number of seconds, got %v", s.ValidityWindow)
	}

	ext := s.ManifestExtension
	if ext == "" || strings.ContainsAny(ext, "./?#& ") {
		return fmt.Errorf("STREAM_MANIFEST_EXTENSION must be a bare extension like m3u8, got %q", ext)
	}

	if s.InternalHostPattern != "" {
		if _, err := regexp.Compile(s.InternalHostPattern); err != nil {
			return fmt.Errorf("STREAM_INTERNAL_HOST_PATTERN is not a valid regular expression: %w", err)
		}
	}

	switch s.SignatureAlgorithm {
	case "md5", "hmac-sha256":
	default:
		return fmt.Errorf("STREAM_SIGNATURE_ALGORITHM must be md5 or hmac-sha256, got %q", s.SignatureAlgorithm)
	}

	if s.LookupTimeout <= 0 {
		return fmt.Errorf("STREAM_LOOKUP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Backend {
	case "json":
		if c.Catalog.DataFile == "" {
			return fmt.Errorf("CATALOG_DATA_FILE is required when CATALOG_BACKEND=json")
		}
	case "badger":
		if c.Catalog.BadgerDir == "" {
			return fmt.Errorf("CATALOG_BADGER_DIR is required when CATALOG_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CATALOG_BACKEND must be json or badger, got %q", c.Catalog.Backend)
	}
	if c.Catalog.CacheSize < 0 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must not be negative")
	}
	if c.Catalog.BreakerMaxFailures == 0 {
		return fmt.Errorf("CATALOG_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.IsProduction() && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	for _, proxy := range c.Security.TrustedProxies {
		if _, err := ParseTrustedProxy(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is invalid: %w", proxy, err)
		}
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be at least 1")
	}
	if c.Audit.MaxEvents < 1 {
		return fmt.Errorf("AUDIT_MAX_EVENTS must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// ParseTrustedProxy accepts a bare IP ("10.0.0.1") or a CIDR ("10.0.0.0/8").
func ParseTrustedProxy(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
