// Package errs defines the error types handlers return so that a single
// adapter can turn them into consistent JSON responses.
//
// Every error that reaches a client is rendered as {"message": "..."} with
// the status attached to the error. Errors without an attached status are
// reported as 500 with their own message.
package errs
