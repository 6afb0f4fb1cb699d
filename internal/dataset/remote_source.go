package dataset

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/model"
)

var _ Source = (*RemoteSource)(nil)

type RemoteSource struct {
	URL string

	Client *http.Client
}

func (src *RemoteSource) Load(ctx context.Context) (*model.Dataset, error) {
	logger := log.FromContext(ctx)

	hc := src.Client
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build dataset request for %s", src.URL)
	}
	req.Header.Add("Accept", "application/yaml, application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch dataset from %s", src.URL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected response code from %s: %d", src.URL, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset from %s", src.URL)
	}

	ds, err := Decode(b)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset from %s", src.URL)
	}

	logger.V(1).Info("dataset fetched", "url", src.URL, "games", len(ds.Games), "reviews", len(ds.Reviews), "authors", len(ds.Authors))

	return ds, nil
}
