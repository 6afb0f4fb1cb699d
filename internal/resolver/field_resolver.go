package resolver

import (
	"context"
	"fmt"
	"reflect"

	"github.com/99designs/gqlgen/graphql"
	"github.com/mitchellh/mapstructure"
	"github.com/vvakame/gamereview/internal/execute"
	"github.com/vvakame/gamereview/internal/model"
)

type fieldFunc func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error)

// fields maps "Type.field" to the function resolving it.
var fields = map[string]fieldFunc{
	"Query.reviews": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Query().Reviews(ctx)
	},
	"Query.review": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		return root.Query().Review(ctx, id)
	},
	"Query.games": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Query().Games(ctx)
	},
	"Query.game": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		return root.Query().Game(ctx, id)
	},
	"Query.authors": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Query().Authors(ctx)
	},
	"Query.author": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		return root.Query().Author(ctx, id)
	},

	"Mutation.addGame": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		var input model.AddGameInput
		if err := decodeInput(args["game"], &input); err != nil {
			return nil, err
		}
		return root.Mutation().AddGame(ctx, input)
	},
	"Mutation.deleteGame": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		return root.Mutation().DeleteGame(ctx, id)
	},
	"Mutation.updateGame": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		var edits model.EditGameInput
		if err := decodeInput(args["edits"], &edits); err != nil {
			return nil, err
		}
		return root.Mutation().UpdateGame(ctx, id, edits)
	},

	"Game.id": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Game).ID, nil
	},
	"Game.title": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Game).Title, nil
	},
	"Game.platform": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Game).Platform, nil
	},
	"Game.reviews": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Game().Reviews(ctx, obj.(*model.Game))
	},

	"Review.id": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Review).ID, nil
	},
	"Review.rating": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Review).Rating, nil
	},
	"Review.content": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Review).Content, nil
	},
	"Review.game": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Review().Game(ctx, obj.(*model.Review))
	},
	"Review.author": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Review().Author(ctx, obj.(*model.Review))
	},

	"Author.id": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Author).ID, nil
	},
	"Author.name": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Author).Name, nil
	},
	"Author.verified": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return obj.(*model.Author).Verified, nil
	},
	"Author.reviews": func(ctx context.Context, root ResolverRoot, obj interface{}, args map[string]interface{}) (interface{}, error) {
		return root.Author().Reviews(ctx, obj.(*model.Author))
	},
}

// NewFieldResolver returns an execute.FieldResolver dispatching every
// schema field to root.
func NewFieldResolver(root ResolverRoot) execute.FieldResolver {
	return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		fc := graphql.GetFieldContext(ctx)
		if fc == nil {
			panic("ctx doesn't have FieldContext")
		}

		f, ok := fields[fc.Object+"."+fc.Field.Name]
		if !ok {
			return nil, fmt.Errorf("no resolver for %s.%s", fc.Object, fc.Field.Name)
		}

		return f(ctx, root, source, args)
	}
}

func idArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", fmt.Errorf("argument %s is required", name)
	}

	id, err := graphql.UnmarshalID(v)
	if err != nil {
		return "", fmt.Errorf("argument %s: %w", name, err)
	}

	return id, nil
}

func decodeInput(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  wrapSingleValue,
		ErrorUnused: true,
		Result:      result,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// wrapSingleValue coerces a single value given for a list input into a
// list of one item.
func wrapSingleValue(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Slice {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Slice, reflect.Array:
		return data, nil
	}

	return []interface{}{data}, nil
}
