package server

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gamereview/internal/dataset"
	"github.com/vvakame/gamereview/internal/execute"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/resolver"
	"github.com/vvakame/gamereview/internal/schema"
	"github.com/vvakame/gamereview/internal/store"
)

var _ graphql.ExecutableSchema = (*serverImpl)(nil)

type Config struct {
	// Dataset seeds the store. The embedded default seed is used when nil.
	Dataset dataset.Source
}

type serverImpl struct {
	schema        *ast.Schema
	store         *store.Store
	fieldResolver execute.FieldResolver
}

// NewExecutableSchema loads the schema and the seed dataset and returns an
// ExecutableSchema serving games, reviews and authors. Every call creates an
// independent store.
func NewExecutableSchema(ctx context.Context, cfg *Config) (graphql.ExecutableSchema, error) {
	logger := log.FromContext(ctx)

	if cfg == nil {
		cfg = &Config{}
	}
	source := cfg.Dataset
	if source == nil {
		source = dataset.Default()
	}

	s, err := schema.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load schema")
	}

	ds, err := source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}

	st := store.New(ds)
	games, reviews, authors := st.Stats()
	logger.Info("store seeded", "games", games, "reviews", reviews, "authors", authors)

	return &serverImpl{
		schema:        s,
		store:         st,
		fieldResolver: resolver.NewFieldResolver(resolver.NewResolver(st)),
	}, nil
}

func (s *serverImpl) Schema() *ast.Schema {
	return s.schema
}

func (s *serverImpl) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (s *serverImpl) Exec(ctx context.Context) graphql.ResponseHandler {
	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		return execute.Execute(ctx, &execute.ExecutionArgs{
			Schema:        s.schema,
			FieldResolver: s.fieldResolver,
		})
	}
}

// Stats reports the current collection sizes.
func (s *serverImpl) Stats() (games, reviews, authors int) {
	return s.store.Stats()
}
