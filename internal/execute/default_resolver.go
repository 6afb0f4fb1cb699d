package execute

import (
	"context"
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/99designs/gqlgen/graphql"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// defaultFieldResolver reads the field from source.
// A map is looked up by the response key and then by the field name.
// Other values are asked for a method named after the field (arguments are
// passed in definition order), then for an exported struct field.
func defaultFieldResolver(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil {
		panic("ctx doesn't have FieldContext")
	}

	if source == nil {
		return nil, nil
	}

	if m, ok := source.(map[string]interface{}); ok {
		if v, ok := m[fc.Field.Alias]; ok {
			return v, nil
		}
		return m[fc.Field.Name], nil
	}

	rv := reflect.ValueOf(source)
	if rv.Kind() != reflect.Ptr {
		// methods may have pointer receivers.
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		rv = pv
	} else if rv.IsNil() {
		return nil, nil
	}

	goName := exportedName(fc.Field.Name)

	if method := rv.MethodByName(goName); method.IsValid() {
		return callMethod(method, fc, args)
	}

	elem := rv.Elem()
	if elem.Kind() == reflect.Struct {
		if fv := elem.FieldByName(goName); fv.IsValid() && fv.CanInterface() {
			return fv.Interface(), nil
		}
	}

	return nil, fmt.Errorf("%T doesn't have field %s", source, fc.Field.Name)
}

func callMethod(method reflect.Value, fc *graphql.FieldContext, args map[string]interface{}) (interface{}, error) {
	mt := method.Type()

	var in []reflect.Value
	if def := fc.Field.Definition; def != nil {
		for i, argDef := range def.Arguments {
			if i >= mt.NumIn() {
				break
			}
			in = append(in, argumentValue(mt.In(i), args[argDef.Name]))
		}
	}
	if len(in) != mt.NumIn() {
		return nil, fmt.Errorf("unexpected arguments for %s.%s", fc.Object, fc.Field.Name)
	}

	out := method.Call(in)
	switch {
	case len(out) == 1:
		return out[0].Interface(), nil
	case len(out) == 2 && mt.Out(1) == errorType:
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}

	return nil, fmt.Errorf("unexpected method signature for %s.%s", fc.Object, fc.Field.Name)
}

func argumentValue(typ reflect.Type, v interface{}) reflect.Value {
	if v == nil {
		return reflect.Zero(typ)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().ConvertibleTo(typ) {
		return rv.Convert(typ)
	}

	return reflect.Zero(typ)
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
