package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/survey/internal/server"
	"github.com/deppfellow/survey/internal/sqlerr"
)

// TracingMiddleware owns the New Relic side of the echo chain.
//
// It has two layers:
//  1. NewRelicMiddleware() -> opens one transaction per request
//  2. EnhanceTracing()     -> tags that transaction with survey specific
//     attributes and notices handler errors
//
// nrApp is nil when New Relic is disabled; both layers then pass the
// request through untouched, so the router never has to check.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns nrecho's middleware, or a no-op without an app.
//
// nrecho stores the transaction in the request context, which is what
// lets EnhanceTracing and the nrpgx5 tracer find it further down.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds custom attributes to the request's transaction.
//
// It must run after NewRelicMiddleware. What it adds:
//   - client IP, user agent and request id (to join traces with logs)
//   - the configured database driver (sqlite or postgres)
//   - the final status code, predicted from the error when there is one
//   - the normalized driver error, when storage failed
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// nil when New Relic is off or the middleware order is wrong.
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			txn.AddAttribute("db.driver", tm.server.Config.Database.Driver)

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)
			if err == nil {
				txn.AddAttribute("http.status_code", c.Response().Status)
				return nil
			}

			// nrpkgerrors keeps the pkg/errors stack the service attached.
			txn.NoticeError(nrpkgerrors.Wrap(err))

			// The global error handler has not written the response yet,
			// so c.Response().Status would still read 200 here.
			txn.AddAttribute("http.status_code", statusFromError(err))

			// The client only ever sees a generic 500 for these; the
			// trace is where the real cause is kept.
			if dbErr, ok := sqlerr.FromError(err); ok {
				txn.AddAttribute("db.error_code", string(dbErr.Code))
				txn.AddAttribute("db.sqlstate", dbErr.DatabaseCode)
				if dbErr.ColumnName != "" {
					txn.AddAttribute("db.column", dbErr.ColumnName)
				}
			}

			return err
		}
	}
}
