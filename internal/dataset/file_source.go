package dataset

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/model"
)

var _ Source = (*FileSource)(nil)

type FileSource struct {
	Path string
}

func (src *FileSource) Load(ctx context.Context) (*model.Dataset, error) {
	logger := log.FromContext(ctx)

	b, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset file %s", src.Path)
	}

	ds, err := Decode(b)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset file %s", src.Path)
	}

	logger.V(1).Info("dataset loaded", "path", src.Path, "games", len(ds.Games), "reviews", len(ds.Reviews), "authors", len(ds.Authors))

	return ds, nil
}
