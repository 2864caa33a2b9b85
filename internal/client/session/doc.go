// Package session owns the authenticated-account lifecycle of the client.
//
// A Coordinator is the single source of truth for "who is signed in". It
// loads the persisted credential, exchanges it for the account profile and
// exposes the resulting Session to every consumer. Sign-in/sign-up flows call
// Establish, sign-out calls Clear. Only the Coordinator reads or writes the
// persisted credential.
//
// Read failures never escape: a credential that cannot be exchanged for an
// account leaves the session anonymous so public content can still be shown.
package session
