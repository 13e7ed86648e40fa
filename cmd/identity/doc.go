// Package identity implements Atrium's user records.
//
// It defines the User model and the persistence boundary consumed by the auth
// flows, with a Postgres implementation for production and an in-memory
// implementation for database-less runs and tests.
package identity
