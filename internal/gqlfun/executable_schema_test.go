package gqlfun

import (
	"context"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vvakame/gamereview/internal/execute"
)

var _ graphql.ExecutableSchema = (*testSchema)(nil)

type testSchema struct {
	schema *ast.Schema
}

func newTestSchema(t *testing.T) *testSchema {
	t.Helper()

	schemaDoc, err := parser.ParseSchemas(validator.Prelude, &ast.Source{
		Name:  "schema.graphqls",
		Input: `type Query { hello(name: String = "world"): String fail: String! }`,
	})
	require.NoError(t, err)
	schema, err := validator.ValidateSchemaDocument(schemaDoc)
	require.NoError(t, err)

	return &testSchema{schema: schema}
}

func (s *testSchema) Schema() *ast.Schema {
	return s.schema
}

func (s *testSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (s *testSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	return func(ctx context.Context) *graphql.Response {
		return execute.Execute(ctx, &execute.ExecutionArgs{
			Schema: s.schema,
			FieldResolver: func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				fc := graphql.GetFieldContext(ctx)
				if fc.Field.Name == "fail" {
					return nil, nil
				}
				return "hello, " + args["name"].(string), nil
			},
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	es := newTestSchema(t)

	resp := Execute(ctx, es, `query Hello($name: String) { hello(name: $name) }`, map[string]interface{}{"name": "gopher"}, "")
	require.Empty(t, resp.Errors)
	require.JSONEq(t, `{"hello": "hello, gopher"}`, string(resp.Data))

	resp = Execute(ctx, es, `query A { hello } query B { a: hello b: hello(name: "b") }`, nil, "B")
	require.Empty(t, resp.Errors)
	require.JSONEq(t, `{"a": "hello, world", "b": "hello, b"}`, string(resp.Data))
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	es := newTestSchema(t)

	resp := Execute(ctx, es, `{ hello`, nil, "")
	require.Len(t, resp.Errors, 1)
	require.Nil(t, resp.Data)

	resp = Execute(ctx, es, `{ unknown }`, nil, "")
	require.NotEmpty(t, resp.Errors)

	resp = Execute(ctx, es, `query A { hello } query B { hello }`, nil, "")
	require.Len(t, resp.Errors, 1)

	resp = Execute(ctx, es, `query A { hello }`, nil, "C")
	require.Len(t, resp.Errors, 1)

	resp = Execute(ctx, es, `query ($name: String!) { hello(name: $name) }`, nil, "")
	require.Len(t, resp.Errors, 1)

	// partial failure keeps both data and errors.
	resp = Execute(ctx, es, `{ fail }`, nil, "")
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "null", string(resp.Data))
}
