// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package securelink

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query parameter names understood by the edge.
const (
	ParamSignature = "sig"
	ParamExpires   = "expires"
)

// BuildURL renders {base}{path}?sig={sig}&expires={expires}. A trailing
// slash on base is dropped so the path is never doubled.
func BuildURL(base, path, sig string, expires int64) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return strings.TrimRight(base, "/") + escaped +
		"?" + ParamSignature + "=" + sig +
		"&" + ParamExpires + "=" + strconv.FormatInt(expires, 10)
}

// SignURL signs path and renders the edge URL under base.
func (s *Signer) SignURL(base, path string, expires int64, clientIP string) (string, error) {
	sig, err := s.Sign(path, expires, clientIP)
	if err != nil {
		return "", err
	}
	return BuildURL(base, path, sig, expires), nil
}

// Parsed holds the signed parameters extracted from a link.
type Parsed struct {
	Path      string
	Signature string
	Expires   int64
}

// Parse extracts path, sig and expires from a signed link. The path is the
// decoded URL path, which is what the edge signs against.
func Parse(rawURL string) (Parsed, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	q := u.Query()
	sig := q.Get(ParamSignature)
	exp := q.Get(ParamExpires)
	if sig == "" || exp == "" {
		return Parsed{}, fmt.Errorf("%w: missing %s or %s", ErrMalformed, ParamSignature, ParamExpires)
	}
	expires, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: expires is not an integer", ErrMalformed)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return Parsed{Path: path, Signature: sig, Expires: expires}, nil
}

// VerifyURL parses rawURL and runs Verify on its parameters.
func (s *Signer) VerifyURL(rawURL, clientIP string, now time.Time) error {
	p, err := Parse(rawURL)
	if err != nil {
		return err
	}
	return s.Verify(p.Path, p.Signature, p.Expires, clientIP, now)
}
