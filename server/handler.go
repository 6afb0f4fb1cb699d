package server

import (
	"context"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/metrics"
)

const RequestIDHeader = "X-Request-Id"

type HandlerConfig struct {
	Logger  logr.Logger
	Metrics *metrics.Metrics // optional

	Playground    bool
	Introspection bool
}

type statsProvider interface {
	Stats() (games, reviews, authors int)
}

// NewHandler mounts es on /query, the playground on / and the metrics
// endpoint on /metrics.
func NewHandler(es graphql.ExecutableSchema, cfg *HandlerConfig) (http.Handler, error) {
	if cfg == nil {
		cfg = &HandlerConfig{}
	}

	srv := handler.New(es)
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	if cfg.Introspection {
		srv.Use(extension.Introspection{})
	}
	srv.Use(&operationLogger{})
	srv.SetRecoverFunc(func(ctx context.Context, err interface{}) error {
		log.FromContext(ctx).Error(nil, "resolver panic", "panic", err)
		return gqlerror.Errorf("internal system error")
	})

	mux := http.NewServeMux()
	mux.Handle("/query", srv)
	if cfg.Playground {
		mux.Handle("/", playground.Handler("gamereview", "/query"))
	}

	var h http.Handler = mux
	if m := cfg.Metrics; m != nil {
		srv.Use(m.Extension())
		if sp, ok := es.(statsProvider); ok {
			if err := m.RegisterDataset(sp.Stats); err != nil {
				return nil, err
			}
		}
		mux.Handle("/metrics", m.Handler())
		h = m.InstrumentHandler(mux)
	}

	return withRequestLogger(cfg.Logger, h), nil
}

// withRequestLogger attaches a logger carrying the request id to the
// request context.
func withRequestLogger(logger logr.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := logger.WithValues("requestID", requestID)
		logger.V(2).Info("request received", "method", r.Method, "path", r.URL.Path)

		ctx := log.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var _ interface {
	graphql.HandlerExtension
	graphql.OperationInterceptor
	graphql.ResponseInterceptor
} = (*operationLogger)(nil)

type operationLogger struct{}

func (*operationLogger) ExtensionName() string {
	return "OperationLogger"
}

func (*operationLogger) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (*operationLogger) InterceptOperation(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)
	operation := ""
	if oc.Operation != nil {
		operation = string(oc.Operation.Operation)
	}
	log.FromContext(ctx).V(1).Info("operation", "type", operation, "name", oc.OperationName)

	return next(ctx)
}

func (*operationLogger) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	resp := next(ctx)
	if resp != nil && len(resp.Errors) != 0 {
		log.FromContext(ctx).V(1).Info("operation finished with errors", "errors", resp.Errors.Error())
	}

	return resp
}
