package gqlfun

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	_ "github.com/vektah/gqlparser/v2/validator/rules"
)

// CreateOperationContext parses and validates query against schema and
// selects the operation to run.
func CreateOperationContext(ctx context.Context, schema *ast.Schema, query string, variables map[string]interface{}, operationName string) (*graphql.OperationContext, gqlerror.List) {
	queryDoc, err := parser.ParseQuery(&ast.Source{
		Input:   query,
		BuiltIn: false,
	})
	if err != nil {
		return nil, gqlerror.List{asGQLError(err)}
	}
	gErrs := validator.Validate(schema, queryDoc)
	if len(gErrs) != 0 {
		return nil, gErrs
	}

	op := queryDoc.Operations.ForName(operationName)
	if op == nil {
		if operationName == "" {
			return nil, gqlerror.List{gqlerror.Errorf("operation name is required when the document has multiple operations")}
		}
		return nil, gqlerror.List{gqlerror.Errorf(`operation "%s" not found`, operationName)}
	}

	vars, err := validator.VariableValues(schema, op, variables)
	if err != nil {
		return nil, gqlerror.List{asGQLError(err)}
	}

	oc := &graphql.OperationContext{
		RawQuery:             query,
		Variables:            vars,
		OperationName:        operationName,
		Doc:                  queryDoc,
		Operation:            op,
		DisableIntrospection: false,
		RecoverFunc:          graphql.DefaultRecover,
		ResolverMiddleware: func(ctx context.Context, next graphql.Resolver) (res interface{}, err error) {
			return next(ctx)
		},
		Stats: graphql.Stats{},
	}

	return oc, nil
}

// Execute runs query against es without going through an HTTP transport.
// Field errors are returned alongside the partial data.
func Execute(ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]interface{}, operationName string) *graphql.Response {
	oc, gErrs := CreateOperationContext(ctx, es.Schema(), query, variables, operationName)
	if len(gErrs) != 0 {
		return &graphql.Response{Errors: gErrs}
	}
	ctx = graphql.WithOperationContext(ctx, oc)
	ctx = graphql.WithResponseContext(ctx, graphql.DefaultErrorPresenter, graphql.DefaultRecover)

	rh := es.Exec(ctx)
	resp := rh(ctx)
	if resp == nil {
		resp = &graphql.Response{}
	}
	if gErrs := graphql.GetErrors(ctx); len(gErrs) != 0 {
		resp.Errors = append(resp.Errors, gErrs...)
	}

	return resp
}

func asGQLError(err error) *gqlerror.Error {
	var gErr *gqlerror.Error
	if errors.As(err, &gErr) {
		return gErr
	}

	return gqlerror.Errorf("%s", err.Error())
}
