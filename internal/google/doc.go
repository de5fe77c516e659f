// Package google authenticates drivepush against Google APIs.
//
// A Session is built from a service-account key file. The key is parsed,
// the requested scopes are attached, and one access token is fetched
// eagerly so that a revoked key or rejected scope fails at startup rather
// than in the middle of an upload. Every failure is reported as an
// *apperr.CredentialError.
package google
