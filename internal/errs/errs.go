// Package errs defines the error shape returned to API clients.
//
// Every failure leaving the HTTP layer is converted into an *HTTPError so
// clients always receive the same JSON structure: a machine-friendly
// code, a human message, the status and, for validation failures, the
// list of offending fields.
package errs
