// Package sec provides authentication and security primitives for the HTTP
// service.
//
// # Authentication
//
// Users log in with their email and password. Credentials are validated
// against bcrypt password hashes stored in the database; on success a random
// session token is issued to the client, and only its SHA-256 hash is
// persisted. Every protected request presents the token, which the [Manager]
// resolves back to the [Identity] captured at login.
//
// IMPORTANT: session tokens are bearer capabilities. TLS must be used in
// production to protect them in transit.
//
// # Components
//
//   - [Manager]: Login, Logout, and Resolve over a [storage.Sessions] backend
//   - [GetIdentity], [SetIdentity]: Context accessors for the caller identity
//   - [HashPassword], [ComparePassword]: bcrypt password hashing utilities
package sec
