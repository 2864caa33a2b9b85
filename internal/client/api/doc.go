// Package api contains the client side of the Shalo resource API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     account lookup, listing (all, trending, bookmarks), search, resource
//     CRUD, bookmarking, sign-in/sign-up and account removal.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that injects the
//     bearer credential, stamps every request with an X-Request-ID and maps
//     HTTP status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers match with
// errors.Is: ErrNoToken, ErrUnauthorized, ErrNotFound, ErrUnavailable,
// ErrRejected. A call that needs a credential fails locally with ErrNoToken
// when given an empty one; nothing is sent over the wire in that case.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every operation takes a
// context.Context and additionally honours the configured per-call timeout.
package api
