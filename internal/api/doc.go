// Package api provides the HTTP transport for the E-POST letter API. It
// handles bearer authentication, JSON request/response serialization, mapping
// of error payloads and optional client-side throttling.
//
// # Client Creation
//
// [New] uses the functional options pattern. Without options the client talks
// to [DefaultBaseURL] with a [DefaultTimeout] request timeout.
//
// # Authentication
//
// Login endpoints are unauthenticated. Every other call carries the token
// passed in [Request.Token] as an "Authorization: Bearer" header.
//
// # Retry Behavior
//
// Only GET requests (status queries) are retried, and only when
// [WithRetries] raises the limit above zero. Retries back off exponentially
// on these status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// Letter submissions and login calls are sent exactly once.
//
// # Error Handling
//
// Any status outside the accepted set for an endpoint is returned as an
// [apierrors.APIError] carrying the level, code and description of the error
// payload. Transport failures are returned as [apierrors.NetworkError].
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
