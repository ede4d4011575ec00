// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

// Package authz decides entitlements with Casbin.
//
// The embedded model is plain RBAC over (subject, object, action):
//
//	[matchers]
//	m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
//
// and the embedded policy grants
//
//	p, user, stream, play
//	p, admin, audit, read
//	g, admin, user
//
// Subjects are checked first by ID, then by each of their roles, so a
// deployment can grant or deny a single account in a policy file without
// touching roles. Both files can be overridden through CASBIN_MODEL_PATH
// and CASBIN_POLICY_PATH.
package authz
