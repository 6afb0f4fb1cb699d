package dataset

import (
	"context"
	_ "embed"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/vvakame/gamereview/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

// Source provides the dataset a store is seeded with at startup.
type Source interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Decode parses a dataset document. JSON documents are accepted too.
func Decode(b []byte) (*model.Dataset, error) {
	ds := &model.Dataset{}
	err := yaml.UnmarshalWithOptions(b, ds, yaml.DisallowUnknownField())
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset")
	}

	for i, game := range ds.Games {
		if game == nil {
			return nil, errors.Errorf("games[%d] is empty", i)
		}
	}
	for i, review := range ds.Reviews {
		if review == nil {
			return nil, errors.Errorf("reviews[%d] is empty", i)
		}
	}
	for i, author := range ds.Authors {
		if author == nil {
			return nil, errors.Errorf("authors[%d] is empty", i)
		}
	}

	return ds, nil
}

// Default returns the built-in seed.
func Default() *StaticSource {
	ds, err := Decode(seedYAML)
	if err != nil {
		panic(err)
	}
	return &StaticSource{Dataset: ds}
}
