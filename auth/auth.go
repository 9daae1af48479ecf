// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"
)

// AdminKeyHeader carries the admin key on catalog requests.
const AdminKeyHeader = "X-Admin-Key"

var (
	ErrMissingAdminKey = errors.New("missing admin key")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// ValidateAdminKey checks the provided key against the configured one.
// Both are hashed first so the comparison takes the same time whatever
// their lengths.
func ValidateAdminKey(provided, expected string) error {
	if provided == "" {
		return ErrMissingAdminKey
	}
	if expected == "" {
		return ErrInvalidAdminKey
	}

	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	if !hmac.Equal(p[:], e[:]) {
		return ErrInvalidAdminKey
	}
	return nil
}

// AdminKeyFromRequest reads the admin key from the X-Admin-Key header,
// falling back to an "Authorization: Bearer" header.
func AdminKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(AdminKeyHeader); key != "" {
		return key
	}

	authz := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// ValidateRequest validates the admin key carried by r.
func ValidateRequest(r *http.Request, expected string) error {
	return ValidateAdminKey(AdminKeyFromRequest(r), expected)
}
