// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package config loads StreamAI configuration from defaults, an optional
// YAML file, and environment variables (in increasing order of precedence).
//
// The signing secret and JWT secret are only ever supplied externally; there
// are no built-in values for either.
package config

import (
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Stream   StreamConfig   `koanf:"stream"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// IsProduction reports whether the service runs with production checks.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// StreamConfig holds the signed-URL issuing policy.
//
// Environment Variables:
//   - STREAM_SIGNING_SECRET: secret shared with the edge validator
//   - STREAM_EDGE_BASE_URL: scheme and host of the edge tier, e.g. https://edge.example.com
//   - STREAM_VALIDITY_WINDOW: grant lifetime (default: 6h, i.e. 21600s)
//   - STREAM_MANIFEST_EXTENSION: manifest file extension (default: m3u8)
//   - STREAM_INTERNAL_HOST_PATTERN: regexp matched against absolute video URL hosts
//   - STREAM_BIND_CLIENT_IP: include the client IP in the signing input (default: false)
//   - STREAM_SIGNATURE_ALGORITHM: md5 (edge secure_link compatible) or hmac-sha256
//   - STREAM_LOOKUP_TIMEOUT: bound on a single catalog lookup (default: 2s)
type StreamConfig struct {
	SigningSecret       string        `koanf:"signing_secret"`
	EdgeBaseURL         string        `koanf:"edge_base_url"`
	ValidityWindow      time.Duration `koanf:"validity_window"`
	ManifestExtension   string        `koanf:"manifest_extension"`
	InternalHostPattern string        `koanf:"internal_host_pattern"`
	BindClientIP        bool          `koanf:"bind_client_ip"`
	SignatureAlgorithm  string        `koanf:"signature_algorithm"`
	LookupTimeout       time.Duration `koanf:"lookup_timeout"`
}

// CatalogConfig selects and tunes the content catalog backend.
type CatalogConfig struct {
	// Backend is "json" (data.json document) or "badger".
	Backend        string        `koanf:"backend"`
	DataFile       string        `koanf:"data_file"`
	BadgerDir      string        `koanf:"badger_dir"`
	CacheSize      int           `koanf:"cache_size"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// Circuit breaker around the backend.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// SecurityConfig holds bearer verification and HTTP hardening settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	Casbin            CasbinConfig  `koanf:"casbin"`

	// JWTRequireExp rejects tokens without an exp claim. When false, such
	// tokens are valid for SessionTimeout after their iat.
	JWTRequireExp bool `koanf:"jwt_require_exp"`
}

// CasbinConfig points at optional model/policy overrides. Empty paths use
// the embedded defaults.
type CasbinConfig struct {
	ModelPath    string        `koanf:"model_path"`
	PolicyPath   string        `koanf:"policy_path"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// AuditConfig controls the authorization audit trail.
type AuditConfig struct {
	Enabled    bool `koanf:"enabled"`
	BufferSize int  `koanf:"buffer_size"`
	MaxEvents  int  `koanf:"max_events"`
}

// LoggingConfig holds zerolog settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
