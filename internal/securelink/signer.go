// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package securelink computes and verifies expiring signed links in the
// format enforced by the edge tier (nginx secure_link_md5 compatible).
//
// The signing input is the byte-exact concatenation
//
//	expires + path [+ clientIP] + " " + secret
//
// hashed with MD5 and encoded as unpadded URL-safe base64. With
// BindClientIP the client address follows the path directly, matching
// "$secure_link_expires$uri$remote_addr secret" on the edge. The
// hmac-sha256 algorithm keys an HMAC with the secret over
// expires + path [+ clientIP] instead, for edges that support it.
//
// Issuer and edge must agree on every byte. Any disagreement makes every
// link fail verification, never pass it.
package securelink

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // required by the edge secure_link scheme, not used as a security primitive on its own
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Algorithm selects the digest used for signatures.
type Algorithm string

const (
	AlgorithmMD5        Algorithm = "md5"
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"
)

var (
	// ErrSecretMissing means no signing secret is configured.
	ErrSecretMissing = errors.New("securelink: signing secret is not configured")

	// ErrClientIPRequired means IP binding is on but no client address was given.
	ErrClientIPRequired = errors.New("securelink: client IP required when IP binding is enabled")

	// ErrInvalidPath means the path is not a leading-slash absolute path.
	ErrInvalidPath = errors.New("securelink: path must start with /")

	ErrUnknownAlgorithm  = errors.New("securelink: unknown signature algorithm")
	ErrMalformed         = errors.New("securelink: malformed signed link")
	ErrExpired           = errors.New("securelink: link expired")
	ErrSignatureMismatch = errors.New("securelink: signature mismatch")
)

// Digest hashes a signing input into raw digest bytes.
type Digest func(input []byte) []byte

// MD5Digest is the digest used by the md5 algorithm.
func MD5Digest(input []byte) []byte {
	sum := md5.Sum(input) //nolint:gosec // see import
	return sum[:]
}

// HMACSHA256Digest returns an HMAC-SHA256 digest keyed with secret.
func HMACSHA256Digest(secret []byte) Digest {
	return func(input []byte) []byte {
		mac := hmac.New(sha256.New, secret)
		mac.Write(input)
		return mac.Sum(nil)
	}
}

// Config is the immutable signing policy.
type Config struct {
	Secret       string
	Algorithm    Algorithm
	BindClientIP bool
}

// Signer computes and verifies link signatures. It holds no mutable state
// and is safe for concurrent use.
type Signer struct {
	secret    []byte
	algorithm Algorithm
	bindIP    bool
	digest    Digest
}

// Option customizes a Signer.
type Option func(*Signer)

// WithDigest replaces the digest function. Tests use it to count digest
// invocations; production code should not need it.
func WithDigest(d Digest) Option {
	return func(s *Signer) { s.digest = d }
}

// NewSigner validates cfg and returns a Signer. An empty secret is
// rejected with ErrSecretMissing.
func NewSigner(cfg Config, opts ...Option) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretMissing
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmMD5
	}

	s := &Signer{
		secret:    []byte(cfg.Secret),
		algorithm: cfg.Algorithm,
		bindIP:    cfg.BindClientIP,
	}
	switch cfg.Algorithm {
	case AlgorithmMD5:
		s.digest = MD5Digest
	case AlgorithmHMACSHA256:
		s.digest = HMACSHA256Digest(s.secret)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, cfg.Algorithm)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BindsClientIP reports whether signatures cover the client address.
func (s *Signer) BindsClientIP() bool { return s.bindIP }

// Algorithm returns the configured algorithm.
func (s *Signer) Algorithm() Algorithm { return s.algorithm }

// Input returns the exact bytes that are digested for the given link
// parameters. clientIP is ignored unless IP binding is enabled.
func (s *Signer) Input(expires int64, path, clientIP string) string {
	var b strings.Builder
	b.Grow(20 + len(path) + len(clientIP) + 1 + len(s.secret))
	b.WriteString(strconv.FormatInt(expires, 10))
	b.WriteString(path)
	if s.bindIP {
		b.WriteString(clientIP)
	}
	if s.algorithm == AlgorithmMD5 {
		b.WriteByte(' ')
		b.Write(s.secret)
	}
	return b.String()
}

// Sign returns the encoded signature for path valid until expires.
func (s *Signer) Sign(path string, expires int64, clientIP string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrSecretMissing
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}
	if s.bindIP && clientIP == "" {
		return "", ErrClientIPRequired
	}
	return Encode(s.digest([]byte(s.Input(expires, path, clientIP)))), nil
}

// Verify applies the edge validator contract: reject when now is past
// expires, otherwise recompute the signature and compare in constant time.
func (s *Signer) Verify(path, sig string, expires int64, clientIP string, now time.Time) error {
	if now.Unix() > expires {
		return ErrExpired
	}
	want, err := s.Sign(path, expires, clientIP)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(sig)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// Encode is unpadded URL-safe base64 ('+' -> '-', '/' -> '_', no '=').
func Encode(digest []byte) string {
	return base64.RawURLEncoding.EncodeToString(digest)
}
