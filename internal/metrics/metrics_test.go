package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func TestMetrics_RegisterDataset(t *testing.T) {
	m := New()

	games := 5
	err := m.RegisterDataset(func() (int, int, int) {
		return games, 7, 3
	})
	require.NoError(t, err)

	expected := heredoc.Doc(`
		# HELP gamereview_records Number of records per collection
		# TYPE gamereview_records gauge
		gamereview_records{collection="authors"} 3
		gamereview_records{collection="games"} 5
		gamereview_records{collection="reviews"} 7
	`)
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "gamereview_records"))

	games = 6
	expected = strings.Replace(expected, `{collection="games"} 5`, `{collection="games"} 6`, 1)
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "gamereview_records"))
}

func TestMetrics_Extension(t *testing.T) {
	m := New()
	ext := m.Extension().(graphql.ResponseInterceptor)

	run := func(op ast.Operation, resp *graphql.Response) {
		ctx := graphql.WithOperationContext(context.Background(), &graphql.OperationContext{
			Operation: &ast.OperationDefinition{Operation: op},
			Stats: graphql.Stats{
				OperationStart: time.Now(),
			},
		})
		got := ext.InterceptResponse(ctx, func(ctx context.Context) *graphql.Response {
			return resp
		})
		require.Same(t, resp, got)
	}

	run(ast.Query, &graphql.Response{})
	run(ast.Query, &graphql.Response{})
	run(ast.Mutation, &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("boom")}})

	require.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("query", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mutation", "error")))
	require.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()

	h := m.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("get", "418")))

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "gamereview_http_requests_total")
}
