// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, CORS, secure headers,
// New Relic tracing, panic recovery and the final error funnel.
package middleware
