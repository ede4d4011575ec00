// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package securelink

import (
	"crypto/md5" //nolint:gosec // fixture recomputation
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

func mustSigner(t *testing.T, cfg Config, opts ...Option) *Signer {
	t.Helper()
	s, err := NewSigner(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	return s
}

func TestInput_ByteLayout(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, Config{Secret: "S"})
	if got := s.Input(1000, "/42/index.m3u8", "203.0.113.7"); got != "1000/42/index.m3u8 S" {
		t.Errorf("Input() = %q, want %q", got, "1000/42/index.m3u8 S")
	}

	bound := mustSigner(t, Config{Secret: "S", BindClientIP: true})
	if got := bound.Input(1000, "/42/index.m3u8", "203.0.113.7"); got != "1000/42/index.m3u8203.0.113.7 S" {
		t.Errorf("bound Input() = %q", got)
	}

	h := mustSigner(t, Config{Secret: "S", Algorithm: AlgorithmHMACSHA256})
	if got := h.Input(1000, "/42/index.m3u8", ""); got != "1000/42/index.m3u8" {
		t.Errorf("hmac Input() = %q, secret must not be part of the message", got)
	}
}

func TestSign_Fixtures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		clientIP string
		want     string
	}{
		{
			name: "md5 without ip binding",
			cfg:  Config{Secret: "S"},
			want: "IkOQi4rBnZHRAAdv-gmHIQ",
		},
		{
			name:     "md5 ignores ip when binding disabled",
			cfg:      Config{Secret: "S"},
			clientIP: "203.0.113.7",
			want:     "IkOQi4rBnZHRAAdv-gmHIQ",
		},
		{
			name:     "md5 with ip binding",
			cfg:      Config{Secret: "S", BindClientIP: true},
			clientIP: "203.0.113.7",
			want:     "ssnjKPpnC7Zu8HV7ROFK3g",
		},
		{
			name: "hmac-sha256 without ip binding",
			cfg:  Config{Secret: "S", Algorithm: AlgorithmHMACSHA256},
			want: "SPFu2ME_DNiHexYaYOdIYkqRDMm_8WM3KeYNYSB1UqA",
		},
		{
			name:     "hmac-sha256 with ip binding",
			cfg:      Config{Secret: "S", Algorithm: AlgorithmHMACSHA256, BindClientIP: true},
			clientIP: "203.0.113.7",
			want:     "HfDr6Ny22mPyBDwVrJus9F6nRekI07JavcCduM1jY3o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := mustSigner(t, tt.cfg)
			got, err := s.Sign("/42/index.m3u8", 1000, tt.clientIP)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Sign() = %q, want %q", got, tt.want)
			}
			if strings.ContainsAny(got, "+/=") {
				t.Errorf("Sign() = %q is not unpadded URL-safe base64", got)
			}
		})
	}
}

func TestSign_MatchesIndependentComputation(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, Config{Secret: "another-secret"})
	for _, tc := range []struct {
		path    string
		expires int64
	}{
		{"/42/index.m3u8", 1700000000},
		{"/movies/7/index.m3u8", 1},
		{"/a b/index.m3u8", 99999999999},
	} {
		sum := md5.Sum([]byte(strings.Join([]string{
			strconv.FormatInt(tc.expires, 10), tc.path, " ", "another-secret",
		}, ""))) //nolint:gosec // fixture recomputation
		want := base64.RawURLEncoding.EncodeToString(sum[:])

		got, err := s.Sign(tc.path, tc.expires, "")
		if err != nil {
			t.Fatalf("Sign(%q) error = %v", tc.path, err)
		}
		if got != want {
			t.Errorf("Sign(%q, %d) = %q, want %q", tc.path, tc.expires, got, want)
		}
		again, _ := s.Sign(tc.path, tc.expires, "")
		if again != got {
			t.Errorf("Sign is not deterministic: %q then %q", got, again)
		}
	}
}

func TestSign_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewSigner(Config{}); !errors.Is(err, ErrSecretMissing) {
		t.Errorf("NewSigner(empty) error = %v, want ErrSecretMissing", err)
	}
	if _, err := NewSigner(Config{Secret: "S", Algorithm: "sha1"}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("NewSigner(sha1) error = %v, want ErrUnknownAlgorithm", err)
	}

	var nilSigner *Signer
	if _, err := nilSigner.Sign("/42/index.m3u8", 1000, ""); !errors.Is(err, ErrSecretMissing) {
		t.Errorf("nil Sign() error = %v, want ErrSecretMissing", err)
	}

	s := mustSigner(t, Config{Secret: "S"})
	if _, err := s.Sign("42/index.m3u8", 1000, ""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("relative path error = %v, want ErrInvalidPath", err)
	}

	bound := mustSigner(t, Config{Secret: "S", BindClientIP: true})
	if _, err := bound.Sign("/42/index.m3u8", 1000, ""); !errors.Is(err, ErrClientIPRequired) {
		t.Errorf("bound without ip error = %v, want ErrClientIPRequired", err)
	}
}

func TestWithDigest_CountsCalls(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := mustSigner(t, Config{Secret: "S"}, WithDigest(func(b []byte) []byte {
		calls.Add(1)
		return MD5Digest(b)
	}))

	got, err := s.Sign("/42/index.m3u8", 1000, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "IkOQi4rBnZHRAAdv-gmHIQ" {
		t.Errorf("Sign() = %q", got)
	}
	if calls.Load() != 1 {
		t.Errorf("digest calls = %d, want 1", calls.Load())
	}
}
