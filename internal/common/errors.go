package common

import "errors"

var (
	// ErrAuthLookupFailed marks an account fetch that failed although a
	// credential was present. It never escapes the session coordinator.
	ErrAuthLookupFailed = errors.New("account lookup failed")

	// ErrRequestRejected wraps any failed mutating call (create, update,
	// delete, bookmark, account removal). It is propagated to the caller.
	ErrRequestRejected = errors.New("request rejected")

	// ErrSearchFailed wraps a failed search fetch. The listing keeps its
	// previous items.
	ErrSearchFailed = errors.New("search failed")

	// ErrListingFailed wraps a failed default listing fetch.
	ErrListingFailed = errors.New("listing fetch failed")

	// ErrNotSignedIn is returned by flows that need an authenticated session.
	ErrNotSignedIn = errors.New("not signed in")
)
