// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package catalog resolves content IDs to content entries.
//
// Every entry is classified exactly once, when it is read from the backing
// store, into one of two sources:
//
//	InternalContent{Path}  hosted on the edge tier, must be signed
//	ExternalContent{URL}   hosted elsewhere, handed out unchanged
//
// Callers branch on the source type and never inspect URLs themselves.
package catalog

import (
	"errors"
)

var (
	// ErrNotFound means no content item has the requested ID.
	ErrNotFound = errors.New("catalog: content not found")

	// ErrInvalidPath means an internal storage path could not be made canonical.
	ErrInvalidPath = errors.New("catalog: invalid storage path")

	// ErrNotLoaded means the catalog has no snapshot yet.
	ErrNotLoaded = errors.New("catalog: not loaded")
)

// Item is a movie or series record as stored in the catalog document.
type Item struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	ThumbnailURL      string   `json:"thumbnailUrl,omitempty"`
	CoverURL          string   `json:"coverUrl,omitempty"`
	VideoURL          string   `json:"videoUrl"`
	Genre             []string `json:"genre,omitempty"`
	Year              int      `json:"year,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	Rating            string   `json:"rating,omitempty"`
	IsFeatured        bool     `json:"isFeatured,omitempty"`
	Views             int      `json:"views"`
	Type              string   `json:"type,omitempty"` // movie or series
	AudioLanguages    []string `json:"audioLanguages,omitempty"`
	SubtitleLanguages []string `json:"subtitleLanguages,omitempty"`
}

// Source is where an item's video is served from. It is either
// InternalContent or ExternalContent.
type Source interface {
	source()
}

// InternalContent is served by the edge tier. Path is canonical: it starts
// with "/", is cleaned, and names the manifest file.
type InternalContent struct {
	Path string
}

// ExternalContent is served by a third party. URL is kept byte-for-byte.
type ExternalContent struct {
	URL string
}

func (InternalContent) source() {}
func (ExternalContent) source() {}

// Entry is an item together with its resolved source.
type Entry struct {
	Item   Item
	Source Source
}
