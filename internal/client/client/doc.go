// Package client talks to the Duemate payments API over HTTP/JSON.
//
// # Overview
//
// Client is the transport-agnostic contract; HTTPClient implements it with
// net/http and an instrumented transport (request ids, metrics, logging).
//
// # Success rules
//
// The backend is not uniform about what "success" means, and the callers
// depend on the exact rule per endpoint:
//
//   - POST /api/auth/login           any 2xx
//   - POST /api/auth/verify_otp      body status == "success", whatever the code
//   - everything under /api/payment* 2xx and body status == "success"
//
// # Errors
//
// A server-reported failure is a *ResponseError carrying the body's message.
// A request that never got a response wraps common.ErrUnavailable. Use
// MessageOr to pick the text shown to the user.
package client
