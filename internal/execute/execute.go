// Package execute runs operations that are already parsed and validated.
// It walks the selection set against *ast.Schema and asks a FieldResolver
// for every field value, so no generated code is needed.
package execute

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/gamereview/internal/utils"
)

type ExecutionContext struct {
	Schema               *ast.Schema
	RootValue            interface{}
	Operation            *ast.OperationDefinition
	VariableValues       map[string]interface{}
	FieldResolver        FieldResolver
	DisableIntrospection bool
	ResolverMiddleware   graphql.FieldMiddleware
	RecoverFunc          graphql.RecoverFunc
}

type ExecutionArgs struct {
	Schema        *ast.Schema
	RootValue     interface{}   // optional
	FieldResolver FieldResolver // optional
}

var _ FieldResolver = defaultFieldResolver

// FieldResolver returns the value of the field described by the
// graphql.FieldContext in ctx. source is the parent value, args the coerced
// field arguments.
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// Execute runs the operation of the graphql.OperationContext in ctx.
// ctx must also carry a response context; field errors are reported there
// with graphql.AddError and are not part of the returned Response.
//
// If errors are encountered while executing a field, only that field and
// its descendants are nulled (up to the nearest nullable position), and
// sibling fields are still executed.
func Execute(ctx context.Context, args *ExecutionArgs) *graphql.Response {
	exeContext, gErr := buildExecutionContext(ctx, args)
	if gErr != nil {
		graphql.AddError(ctx, gErr)
		return &graphql.Response{}
	}

	data := executeOperation(ctx, exeContext)

	var buf bytes.Buffer
	data.MarshalGQL(&buf)

	return &graphql.Response{
		Data: buf.Bytes(),
	}
}

func buildExecutionContext(ctx context.Context, args *ExecutionArgs) (*ExecutionContext, *gqlerror.Error) {
	if args == nil || args.Schema == nil {
		return nil, gqlerror.Errorf("must provide schema")
	}
	if !graphql.HasOperationContext(ctx) {
		return nil, gqlerror.Errorf("must provide operation context")
	}

	oc := graphql.GetOperationContext(ctx)
	if oc.Operation == nil {
		if oc.OperationName != "" {
			return nil, gqlerror.Errorf(`unknown operation named "%s"`, oc.OperationName)
		}
		return nil, gqlerror.Errorf("must provide an operation")
	}

	fieldResolver := args.FieldResolver
	if fieldResolver == nil {
		fieldResolver = defaultFieldResolver
	}

	return &ExecutionContext{
		Schema:               args.Schema,
		RootValue:            args.RootValue,
		Operation:            oc.Operation,
		VariableValues:       oc.Variables,
		FieldResolver:        fieldResolver,
		DisableIntrospection: oc.DisableIntrospection,
		ResolverMiddleware:   oc.ResolverMiddleware,
		RecoverFunc:          oc.RecoverFunc,
	}, nil
}

func executeOperation(ctx context.Context, exeContext *ExecutionContext) graphql.Marshaler {
	operation := exeContext.Operation

	var typ *ast.Definition
	switch operation.Operation {
	case ast.Query:
		typ = exeContext.Schema.Query
	case ast.Mutation:
		typ = exeContext.Schema.Mutation
	case ast.Subscription:
		typ = exeContext.Schema.Subscription
	}
	if typ == nil {
		graphql.AddError(ctx, gqlerror.ErrorPosf(operation.Position, "schema is not configured for %s operations", operation.Operation))
		return graphql.Null
	}
	if operation.Operation == ast.Subscription {
		graphql.AddError(ctx, gqlerror.ErrorPosf(operation.Position, "subscriptions are not supported"))
		return graphql.Null
	}

	fields := graphql.CollectFields(graphql.GetOperationContext(ctx), operation.SelectionSet, []string{typ.Name})
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object: typ.Name,
	})

	var result graphql.Marshaler
	var gErr *gqlerror.Error
	if operation.Operation == ast.Mutation {
		result, gErr = executeFieldsSerially(ctx, exeContext, typ, exeContext.RootValue, fields)
	} else {
		result, gErr = executeFields(ctx, exeContext, typ, exeContext.RootValue, fields)
	}

	// a non-null root field failed, the whole response is nulled.
	if gErr != nil {
		graphql.AddError(ctx, gErr)
		return graphql.Null
	}

	return result
}

// executeFieldsSerially executes root mutation fields one by one in
// document order.
func executeFieldsSerially(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, sourceValue interface{}, fields []graphql.CollectedField) (graphql.Marshaler, *gqlerror.Error) {
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		data, gErr := executeField(ctx, exeContext, parentType, sourceValue, field)
		if gErr != nil {
			return graphql.Null, gErr
		}
		out.Values[i] = data
	}

	return out, nil
}

// executeFields executes fields concurrently.
func executeFields(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, sourceValue interface{}, fields []graphql.CollectedField) (graphql.Marshaler, *gqlerror.Error) {
	out := graphql.NewFieldSet(fields)
	errs := make([]*gqlerror.Error, len(fields))
	for i, field := range fields {
		i, field := i, field
		out.Concurrently(i, func(ctx context.Context) graphql.Marshaler {
			data, gErr := executeField(ctx, exeContext, parentType, sourceValue, field)
			if gErr != nil {
				errs[i] = gErr
				return graphql.Null
			}
			return data
		})
	}
	out.Dispatch(ctx)

	if gErr := firstError(ctx, errs); gErr != nil {
		return graphql.Null, gErr
	}

	return out, nil
}

// firstError returns the first non-nil error to be propagated and reports
// the others, so that no failure is silently dropped.
func firstError(ctx context.Context, errs []*gqlerror.Error) *gqlerror.Error {
	var first *gqlerror.Error
	for _, gErr := range errs {
		if gErr == nil {
			continue
		}
		if first == nil {
			first = gErr
			continue
		}
		graphql.AddError(ctx, gErr)
	}

	return first
}

// executeField resolves the field value and completes it. The returned
// error is non-nil only when the field is non-null and could not be
// completed; the caller must then null its own value. Errors of nullable
// fields are reported here.
func executeField(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, source interface{}, field graphql.CollectedField) (ret graphql.Marshaler, gErr *gqlerror.Error) {
	fieldDef := field.Definition
	if fieldDef == nil {
		return graphql.Null, gqlerror.ErrorPosf(field.Position, `cannot query field "%s" on type "%s"`, field.Name, parentType.Name)
	}
	returnType := fieldDef.Type

	fc := &graphql.FieldContext{
		Object:     parentType.Name,
		Field:      field,
		Args:       field.ArgumentMap(exeContext.VariableValues),
		IsResolver: true,
	}
	ctx = graphql.WithFieldContext(ctx, fc)

	defer func() {
		if r := recover(); r != nil {
			ret = graphql.Null
			gErr = handleFieldError(ctx, returnType, exeContext.recover(ctx, r))
		}
	}()

	result, err := resolveFieldValue(ctx, exeContext, parentType, source, field, fc.Args)
	if err != nil {
		return graphql.Null, handleFieldError(ctx, returnType, err)
	}
	fc.Result = result

	completed, cErr := completeValue(ctx, exeContext, returnType, field, result)
	if cErr != nil {
		return graphql.Null, handleFieldError(ctx, returnType, cErr)
	}

	return completed, nil
}

func resolveFieldValue(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, source interface{}, field graphql.CollectedField, args map[string]interface{}) (interface{}, error) {
	schema := exeContext.Schema

	switch field.Name {
	case "__typename":
		return parentType.Name, nil

	case "__schema", "__type":
		if parentType != schema.Query {
			break
		}
		if exeContext.DisableIntrospection {
			return nil, errors.New("introspection disabled")
		}
		if field.Name == "__schema" {
			return introspection.WrapSchema(schema), nil
		}
		name, _ := args["name"].(string)
		def := schema.Types[name]
		if def == nil {
			return nil, nil
		}
		return introspection.WrapTypeFromDef(schema, def), nil
	}

	resolveFn := exeContext.FieldResolver
	if strings.HasPrefix(parentType.Name, "__") {
		// introspection objects are plain values.
		resolveFn = defaultFieldResolver
	}

	next := func(ctx context.Context) (interface{}, error) {
		return resolveFn(ctx, source, args)
	}
	if exeContext.ResolverMiddleware == nil {
		return next(ctx)
	}

	return exeContext.ResolverMiddleware(ctx, next)
}

func handleFieldError(ctx context.Context, returnType *ast.Type, err error) *gqlerror.Error {
	gErr := locatedError(ctx, err)
	if returnType.NonNull {
		return gErr
	}

	graphql.AddError(ctx, gErr)
	return nil
}

func locatedError(ctx context.Context, err error) *gqlerror.Error {
	var gErr *gqlerror.Error
	if errors.As(err, &gErr) {
		if len(gErr.Path) == 0 {
			gErr.Path = graphql.GetPath(ctx)
		}
		return gErr
	}

	return gqlerror.WrapPath(graphql.GetPath(ctx), err)
}

func (exeContext *ExecutionContext) recover(ctx context.Context, r interface{}) error {
	if exeContext.RecoverFunc != nil {
		return exeContext.RecoverFunc(ctx, r)
	}

	return graphql.DefaultRecover(ctx, r)
}

// completeValue converts a resolved value into its response form.
//
// Non-null types complete the inner type and fail if that yields null.
// Lists complete every item with the item type. Scalars and enums are
// serialized. Objects execute their sub-selection set.
func completeValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, *gqlerror.Error) {
	if err, ok := result.(error); ok && err != nil {
		return graphql.Null, locatedError(ctx, err)
	}

	if returnType.NonNull {
		// a nil slice is an empty list when the list itself can't be null.
		if returnType.Elem != nil && isNilSlice(result) {
			return graphql.Array{}, nil
		}

		nullable := *returnType
		nullable.NonNull = false
		completed, gErr := completeValue(ctx, exeContext, &nullable, field, result)
		if gErr != nil {
			return graphql.Null, gErr
		}
		if completed == graphql.Null {
			return graphql.Null, gqlerror.ErrorPathf(graphql.GetPath(ctx), "must not be null")
		}
		return completed, nil
	}

	if utils.IsNil(result) {
		return graphql.Null, nil
	}

	if returnType.Elem != nil {
		return completeListValue(ctx, exeContext, returnType, field, result)
	}

	def := exeContext.Schema.Types[returnType.NamedType]
	switch {
	case utils.IsLeafType(def):
		return completeLeafValue(ctx, def, result)
	case utils.IsObjectType(def):
		return completeObjectValue(ctx, exeContext, def, field, result)
	case utils.IsAbstractType(def):
		return graphql.Null, gqlerror.ErrorPathf(graphql.GetPath(ctx), "abstract type %s is not supported", def.Name)
	}

	return graphql.Null, gqlerror.ErrorPathf(graphql.GetPath(ctx), "cannot complete value of unexpected output type: %s", returnType.String())
}

func isNilSlice(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.IsNil()
}

// completeListValue completes each item with the inner type. Items of
// composite types are completed concurrently.
func completeListValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, *gqlerror.Error) {
	resultRV := reflect.ValueOf(result)
	if resultRV.Kind() != reflect.Slice && resultRV.Kind() != reflect.Array {
		fc := graphql.GetFieldContext(ctx)
		return graphql.Null, gqlerror.ErrorPathf(graphql.GetPath(ctx), `expected slice, but did not find one for field "%s.%s"`, fc.Object, fc.Field.Name)
	}

	itemType := returnType.Elem
	length := resultRV.Len()
	ret := make(graphql.Array, length)
	errs := make([]*gqlerror.Error, length)

	completeItem := func(index int) {
		item := resultRV.Index(index).Interface()
		ctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Index:  &index,
			Result: item,
		})

		defer func() {
			if r := recover(); r != nil {
				ret[index] = graphql.Null
				errs[index] = handleFieldError(ctx, itemType, exeContext.recover(ctx, r))
			}
		}()

		completed, gErr := completeValue(ctx, exeContext, itemType, field, item)
		if gErr != nil {
			ret[index] = graphql.Null
			errs[index] = handleFieldError(ctx, itemType, gErr)
			return
		}
		ret[index] = completed
	}

	if utils.IsLeafType(exeContext.Schema.Types[itemType.Name()]) || length <= 1 {
		for index := 0; index < length; index++ {
			completeItem(index)
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(length)
		for index := 0; index < length; index++ {
			index := index
			go func() {
				defer wg.Done()
				completeItem(index)
			}()
		}
		wg.Wait()
	}

	if gErr := firstError(ctx, errs); gErr != nil {
		return graphql.Null, gErr
	}

	return ret, nil
}

// completeLeafValue serializes a scalar or enum value.
func completeLeafValue(ctx context.Context, def *ast.Definition, result interface{}) (graphql.Marshaler, *gqlerror.Error) {
	rv := reflect.ValueOf(result)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return graphql.Null, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return graphql.MarshalBoolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def.Name == "ID" || def.Name == "String" {
			return graphql.MarshalString(strconv.FormatInt(rv.Int(), 10)), nil
		}
		return graphql.MarshalInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def.Name == "ID" || def.Name == "String" {
			return graphql.MarshalString(strconv.FormatUint(rv.Uint(), 10)), nil
		}
		return graphql.MarshalInt64(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return graphql.MarshalFloat(rv.Float()), nil
	case reflect.String:
		return graphql.MarshalString(rv.String()), nil
	}

	return graphql.Null, gqlerror.ErrorPathf(graphql.GetPath(ctx), "cannot serialize %T as %s", result, def.Name)
}

// completeObjectValue executes the merged sub-selections of the field.
func completeObjectValue(ctx context.Context, exeContext *ExecutionContext, def *ast.Definition, field graphql.CollectedField, result interface{}) (graphql.Marshaler, *gqlerror.Error) {
	subFields := graphql.CollectFields(graphql.GetOperationContext(ctx), field.Selections, []string{def.Name})

	return executeFields(ctx, exeContext, def, result, subFields)
}
