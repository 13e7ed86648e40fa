// Package flow coordinates registration, login, session resolution and
// logout across the identity store, the password primitives and the
// session service.
//
// Handlers call this package and translate its error kinds to HTTP status
// codes; the coordinator itself knows nothing about HTTP.
package flow
