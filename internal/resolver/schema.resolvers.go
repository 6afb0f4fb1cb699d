package resolver

import (
	"context"

	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/model"
)

func (r *authorResolver) Reviews(ctx context.Context, obj *model.Author) ([]*model.Review, error) {
	return r.store.ReviewsOfAuthor(obj.ID), nil
}

func (r *gameResolver) Reviews(ctx context.Context, obj *model.Game) ([]*model.Review, error) {
	return r.store.ReviewsOfGame(obj.ID), nil
}

func (r *mutationResolver) AddGame(ctx context.Context, game model.AddGameInput) (*model.Game, error) {
	added := r.store.AddGame(game)
	log.FromContext(ctx).V(1).Info("game added", "id", added.ID, "title", added.Title)

	return added, nil
}

func (r *mutationResolver) DeleteGame(ctx context.Context, id string) ([]*model.Game, error) {
	games := r.store.DeleteGame(id)
	log.FromContext(ctx).V(1).Info("game deleted", "id", id, "remaining", len(games))

	return games, nil
}

func (r *mutationResolver) UpdateGame(ctx context.Context, id string, edits model.EditGameInput) (*model.Game, error) {
	game, ok := r.store.UpdateGame(id, edits)
	if !ok {
		return nil, nil
	}
	log.FromContext(ctx).V(1).Info("game updated", "id", id)

	return game, nil
}

func (r *queryResolver) Reviews(ctx context.Context) ([]*model.Review, error) {
	return r.store.Reviews(), nil
}

func (r *queryResolver) Review(ctx context.Context, id string) (*model.Review, error) {
	review, ok := r.store.Review(id)
	if !ok {
		return nil, nil
	}

	return review, nil
}

func (r *queryResolver) Games(ctx context.Context) ([]*model.Game, error) {
	return r.store.Games(), nil
}

func (r *queryResolver) Game(ctx context.Context, id string) (*model.Game, error) {
	game, ok := r.store.Game(id)
	if !ok {
		return nil, nil
	}

	return game, nil
}

func (r *queryResolver) Authors(ctx context.Context) ([]*model.Author, error) {
	return r.store.Authors(), nil
}

func (r *queryResolver) Author(ctx context.Context, id string) (*model.Author, error) {
	author, ok := r.store.Author(id)
	if !ok {
		return nil, nil
	}

	return author, nil
}

func (r *reviewResolver) Game(ctx context.Context, obj *model.Review) (*model.Game, error) {
	game, ok := r.store.Game(obj.GameID)
	if !ok {
		return nil, nil
	}

	return game, nil
}

func (r *reviewResolver) Author(ctx context.Context, obj *model.Review) (*model.Author, error) {
	author, ok := r.store.Author(obj.AuthorID)
	if !ok {
		return nil, nil
	}

	return author, nil
}

// Author returns AuthorResolver implementation.
func (r *Resolver) Author() AuthorResolver { return &authorResolver{r} }

// Game returns GameResolver implementation.
func (r *Resolver) Game() GameResolver { return &gameResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// Review returns ReviewResolver implementation.
func (r *Resolver) Review() ReviewResolver { return &reviewResolver{r} }

type authorResolver struct{ *Resolver }
type gameResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type reviewResolver struct{ *Resolver }
