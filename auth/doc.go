// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the admin-only catalog operations.

# Admin Keys

Creating and deleting actions requires the configured admin key, sent in the
X-Admin-Key header or as a bearer token:

	X-Admin-Key: <key>
	Authorization: Bearer <key>

Validate a request with:

	if err := auth.ValidateRequest(r, cfg.AdminKey); err != nil {
		// 401
	}

Keys are compared through their SHA-256 digests with hmac.Equal, so the
comparison is constant time.

Reading totals, searching and submitting pledges need no key.
*/
package auth
