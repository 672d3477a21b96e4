// SPDX-License-Identifier: Apache-2.0

package http

import "errors"

// Sentinel errors used by the authentication middleware when extracting the
// bearer token from the request. Callers can match against them with
// [errors.Is].
var (
	// ErrMissingCredentials is returned when the request carries neither an
	// "Authorization" header nor an access-token cookie.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header (or cookie mirror) is present but cannot be split into a scheme
	// and a non-empty token value.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
)
