// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package securelink

import (
	"errors"
	"testing"
	"time"
)

func TestBuildURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://edge.example.com", "/42/index.m3u8", "https://edge.example.com/42/index.m3u8?sig=abc&expires=1000"},
		{"https://edge.example.com/", "/42/index.m3u8", "https://edge.example.com/42/index.m3u8?sig=abc&expires=1000"},
		{"https://edge.example.com", "/a b/index.m3u8", "https://edge.example.com/a%20b/index.m3u8?sig=abc&expires=1000"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.path, "abc", 1000); got != tt.want {
			t.Errorf("BuildURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestSignURL(t *testing.T) {
	t.Parallel()

	s, err := NewSigner(Config{Secret: "S"})
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	got, err := s.SignURL("https://edge.example.com/", "/42/index.m3u8", 1000, "")
	if err != nil {
		t.Fatalf("SignURL() error = %v", err)
	}
	want := "https://edge.example.com/42/index.m3u8?sig=IkOQi4rBnZHRAAdv-gmHIQ&expires=1000"
	if got != want {
		t.Errorf("SignURL() = %q, want %q", got, want)
	}

	if _, err := s.SignURL("https://edge.example.com", "42/index.m3u8", 1000, ""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("SignURL(relative) error = %v, want ErrInvalidPath", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := Parse("https://edge.example.com/a%20b/index.m3u8?sig=xyz&expires=1234")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Path != "/a b/index.m3u8" || p.Signature != "xyz" || p.Expires != 1234 {
		t.Errorf("Parse() = %+v", p)
	}

	for _, bad := range []string{
		"https://edge.example.com/42/index.m3u8",
		"https://edge.example.com/42/index.m3u8?sig=xyz",
		"https://edge.example.com/42/index.m3u8?sig=xyz&expires=soon",
		"://bad",
	} {
		if _, err := Parse(bad); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", bad, err)
		}
	}
}

// TestEdgeContract signs with one configuration and verifies with another,
// the way the issuer and the edge proxy are configured independently.
func TestEdgeContract(t *testing.T) {
	t.Parallel()

	const (
		path     = "/42/index.m3u8"
		clientIP = "203.0.113.7"
		expires  = int64(1000)
	)
	now := time.Unix(900, 0)

	tests := []struct {
		name     string
		issuer   Config
		edge     Config
		edgeIP   string
		now      time.Time
		tamper   func(sig string) string
		wantErr  error
		pathSeen string
	}{
		{
			name:   "unbound both sides",
			issuer: Config{Secret: "S"},
			edge:   Config{Secret: "S"},
			edgeIP: "198.51.100.1",
			now:    now,
		},
		{
			name:   "bound both sides same ip",
			issuer: Config{Secret: "S", BindClientIP: true},
			edge:   Config{Secret: "S", BindClientIP: true},
			edgeIP: clientIP,
			now:    now,
		},
		{
			name:    "bound both sides different ip",
			issuer:  Config{Secret: "S", BindClientIP: true},
			edge:    Config{Secret: "S", BindClientIP: true},
			edgeIP:  "198.51.100.1",
			now:     now,
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "issuer omits ip but edge checks it",
			issuer:  Config{Secret: "S"},
			edge:    Config{Secret: "S", BindClientIP: true},
			edgeIP:  clientIP,
			now:     now,
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "issuer binds ip but edge ignores it",
			issuer:  Config{Secret: "S", BindClientIP: true},
			edge:    Config{Secret: "S"},
			edgeIP:  clientIP,
			now:     now,
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "secret mismatch",
			issuer:  Config{Secret: "S"},
			edge:    Config{Secret: "T"},
			now:     now,
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "algorithm mismatch",
			issuer:  Config{Secret: "S"},
			edge:    Config{Secret: "S", Algorithm: AlgorithmHMACSHA256},
			now:     now,
			wantErr: ErrSignatureMismatch,
		},
		{
			name:   "valid at the expiry second",
			issuer: Config{Secret: "S"},
			edge:   Config{Secret: "S"},
			now:    time.Unix(expires, 0),
		},
		{
			name:    "expired one second later",
			issuer:  Config{Secret: "S"},
			edge:    Config{Secret: "S"},
			now:     time.Unix(expires+1, 0),
			wantErr: ErrExpired,
		},
		{
			name:    "tampered signature",
			issuer:  Config{Secret: "S"},
			edge:    Config{Secret: "S"},
			now:     now,
			tamper:  func(sig string) string { return "A" + sig[1:] },
			wantErr: ErrSignatureMismatch,
		},
		{
			name:     "different path",
			issuer:   Config{Secret: "S"},
			edge:     Config{Secret: "S"},
			now:      now,
			pathSeen: "/43/index.m3u8",
			wantErr:  ErrSignatureMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issuer := mustSigner(t, tt.issuer)
			edge := mustSigner(t, tt.edge)

			sig, err := issuer.Sign(path, expires, clientIP)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			if tt.tamper != nil {
				sig = tt.tamper(sig)
			}
			seen := path
			if tt.pathSeen != "" {
				seen = tt.pathSeen
			}
			link := BuildURL("https://edge.example.com", seen, sig, expires)

			err = edge.VerifyURL(link, tt.edgeIP, tt.now)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("VerifyURL() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("VerifyURL() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_ExpiryCheckedBeforeSignature(t *testing.T) {
	t.Parallel()

	calls := 0
	s := mustSigner(t, Config{Secret: "S"}, WithDigest(func(b []byte) []byte {
		calls++
		return MD5Digest(b)
	}))

	err := s.Verify("/42/index.m3u8", "garbage", 1000, "", time.Unix(2000, 0))
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify() error = %v, want ErrExpired", err)
	}
	if calls != 0 {
		t.Errorf("digest calls = %d, want 0 for expired link", calls)
	}
}
