package resolver

import (
	"github.com/vvakame/gamereview/internal/store"
)

// Resolver serves every field of the schema from one Store.
type Resolver struct {
	store *store.Store
}

func NewResolver(s *store.Store) *Resolver {
	return &Resolver{
		store: s,
	}
}
