// Package session implements Atrium's session lifecycle: issuing unguessable
// tokens bound to a user, resolving presented tokens back to a user, and
// deleting sessions on logout.
//
// Resolution treats expired sessions as absent. Callers cannot distinguish
// "never existed" from "expired", which keeps session probing uninformative.
package session
