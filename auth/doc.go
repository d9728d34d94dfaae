// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies caller identity.

Accounts, passwords and verification state live in a separate identity
service. This package only checks the tokens that service issues and turns
them into an Identity.

# Tokens

Tokens are HS256 JWTs with three claims:

	user_id  opaque voter id, used as the ballot's voter
	role     "ADMIN" or "USER"
	exp      expiry, unix seconds (required)

	id, err := auth.ParseToken(tokenString, secret)
	if errors.Is(err, auth.ErrInvalidToken) { ... }

Tokens signed with any other algorithm, expired tokens, and tokens missing a
claim are rejected with ErrInvalidToken. An empty string yields
ErrMissingToken.

# Issuing

IssueToken signs a token for a given Identity. The server never calls it;
tests and local tooling do.

	token, err := auth.IssueToken(auth.Identity{VoterID: "v1", Role: models.RoleUser}, secret, time.Hour)
*/
package auth
