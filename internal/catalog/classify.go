// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package catalog

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Classifier decides between internal and external hosting for an item.
//
//   - empty videoUrl: internal, /{id}/index.{ext}
//   - relative videoUrl: internal, the cleaned relative path
//   - absolute videoUrl whose host matches the internal host pattern:
//     internal, the URL path
//   - anything else: external, unchanged
//
// An internal path without a file extension is a content directory and
// gets /index.{ext} appended. An internal path naming some other file (the
// uploaded source, e.g. movie.mp4) falls back to the transcoder layout
// /{id}/index.{ext}.
type Classifier struct {
	internalHost *regexp.Regexp
	ext          string
}

// NewClassifier compiles hostPattern (may be empty, meaning no absolute URL
// is internal) for manifests with the given extension.
func NewClassifier(hostPattern, manifestExtension string) (*Classifier, error) {
	c := &Classifier{ext: strings.TrimPrefix(manifestExtension, ".")}
	if c.ext == "" {
		c.ext = "m3u8"
	}
	if hostPattern != "" {
		re, err := regexp.Compile(hostPattern)
		if err != nil {
			return nil, fmt.Errorf("compile internal host pattern: %w", err)
		}
		c.internalHost = re
	}
	return c, nil
}

// ManifestExtension returns the extension without a leading dot.
func (c *Classifier) ManifestExtension() string { return c.ext }

// Classify resolves the source for item.
func (c *Classifier) Classify(item Item) (Source, error) {
	raw := strings.TrimSpace(item.VideoURL)
	if raw == "" {
		return c.defaultLayout(item.ID)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, raw, err)
	}

	if u.IsAbs() || u.Host != "" {
		if c.internalHost != nil && c.internalHost.MatchString(u.Hostname()) {
			if u.RawQuery != "" || u.Fragment != "" {
				return nil, fmt.Errorf("%w: %q carries a query or fragment", ErrInvalidPath, raw)
			}
			return c.internal(item.ID, u.EscapedPath())
		}
		return ExternalContent{URL: item.VideoURL}, nil
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("%w: %q carries a query or fragment", ErrInvalidPath, raw)
	}
	return c.internal(item.ID, u.EscapedPath())
}

// internal canonicalizes an escaped storage path.
func (c *Classifier) internal(id, escaped string) (Source, error) {
	p, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if strings.ContainsRune(p, '\\') || strings.ContainsRune(p, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return nil, fmt.Errorf("%w: %q escapes the storage root", ErrInvalidPath, p)
		}
	}

	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	if p == "/" {
		return nil, fmt.Errorf("%w: empty path for %q", ErrInvalidPath, id)
	}
	switch path.Ext(p) {
	case "." + c.ext:
	case "":
		p = path.Join(p, "index."+c.ext)
	default:
		return c.defaultLayout(id)
	}
	return InternalContent{Path: p}, nil
}

func (c *Classifier) defaultLayout(id string) (Source, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("%w: content id %q cannot name a directory", ErrInvalidPath, id)
	}
	return InternalContent{Path: "/" + id + "/index." + c.ext}, nil
}
