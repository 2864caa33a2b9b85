// Package cli provides the interactive Shalo command-line client.
//
// It wires configuration, the local credential store, the resource API, the
// session coordinator and the listings, then runs a REPL on top of them.
// Typical flow: restore the persisted session, show the home listing, and
// execute user commands until exit.
//
// Key features:
//   - Sign in / sign up / sign out, delete account
//   - Home, trending and bookmark listings with paging
//   - Search across all resources
//   - Show, create, update, delete and bookmark resources
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Failures are reported as "! <message>" lines and never end the loop.
package cli
