// Package api implements the HTTP handlers for the word, review-session,
// quiz, and authentication endpoints. Handlers validate input, delegate to
// the stores and session engines, and translate domain errors to HTTP
// responses.
package api
