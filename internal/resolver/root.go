package resolver

import (
	"context"

	"github.com/vvakame/gamereview/internal/model"
)

type ResolverRoot interface {
	Author() AuthorResolver
	Game() GameResolver
	Mutation() MutationResolver
	Query() QueryResolver
	Review() ReviewResolver
}

type AuthorResolver interface {
	Reviews(ctx context.Context, obj *model.Author) ([]*model.Review, error)
}

type GameResolver interface {
	Reviews(ctx context.Context, obj *model.Game) ([]*model.Review, error)
}

type MutationResolver interface {
	AddGame(ctx context.Context, game model.AddGameInput) (*model.Game, error)
	DeleteGame(ctx context.Context, id string) ([]*model.Game, error)
	UpdateGame(ctx context.Context, id string, edits model.EditGameInput) (*model.Game, error)
}

type QueryResolver interface {
	Reviews(ctx context.Context) ([]*model.Review, error)
	Review(ctx context.Context, id string) (*model.Review, error)
	Games(ctx context.Context) ([]*model.Game, error)
	Game(ctx context.Context, id string) (*model.Game, error)
	Authors(ctx context.Context) ([]*model.Author, error)
	Author(ctx context.Context, id string) (*model.Author, error)
}

type ReviewResolver interface {
	Game(ctx context.Context, obj *model.Review) (*model.Game, error)
	Author(ctx context.Context, obj *model.Review) (*model.Author, error)
}
