// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package logging

import (
	"strconv"
	"strings"
)

// RedactSecret renders a secret for logs without revealing any of it.
// Only presence and length are kept: "" -> "<unset>", "hunter2" -> "<redacted len=7>".
func RedactSecret(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<redacted len=" + strconv.Itoa(len(secret)) + ">"
}

// RedactEmail masks the local part of an email address.
// "jane.doe@example.com" -> "ja***@example.com"
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	switch {
	case email == "":
		return ""
	case at <= 0:
		return "***"
	case at <= 2:
		return "***" + email[at:]
	default:
		return email[:2] + "***" + email[at:]
	}
}

// RedactSignedURL strips the sig query parameter value from a signed URL so
// that grants can be logged without handing out a working link.
func RedactSignedURL(rawURL string) string {
	i := strings.Index(rawURL, "?sig=")
	if i < 0 {
		i = strings.Index(rawURL, "&sig=")
	}
	if i < 0 {
		return rawURL
	}
	i++
	end := strings.IndexByte(rawURL[i:], '&')
	if end < 0 {
		return rawURL[:i] + "sig=***"
	}
	return rawURL[:i] + "sig=***" + rawURL[i+end:]
}
