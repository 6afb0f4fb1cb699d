package store

import (
	"strconv"
	"sync"

	"github.com/vvakame/gamereview/internal/model"
)

// Store owns the games, reviews and authors collections of one server
// instance. Records handed out are never modified in place; updates replace
// them with a new value.
type Store struct {
	mu sync.RWMutex

	games   []*model.Game
	reviews []*model.Review
	authors []*model.Author

	// reviews are read-only, so these are built once at seed time.
	reviewsByGame   map[string][]*model.Review
	reviewsByAuthor map[string][]*model.Review

	lastGameID int
}

func New(ds *model.Dataset) *Store {
	ds = ds.Clone()

	s := &Store{
		games:           ds.Games,
		reviews:         ds.Reviews,
		authors:         ds.Authors,
		reviewsByGame:   make(map[string][]*model.Review),
		reviewsByAuthor: make(map[string][]*model.Review),
		lastGameID:      len(ds.Games),
	}

	for _, review := range s.reviews {
		s.reviewsByGame[review.GameID] = append(s.reviewsByGame[review.GameID], review)
		s.reviewsByAuthor[review.AuthorID] = append(s.reviewsByAuthor[review.AuthorID], review)
	}
	for _, game := range s.games {
		if n, err := strconv.Atoi(game.ID); err == nil && n > s.lastGameID {
			s.lastGameID = n
		}
	}

	return s
}

func (s *Store) Games() []*model.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Game{}, s.games...)
}

func (s *Store) Reviews() []*model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Review{}, s.reviews...)
}

func (s *Store) Authors() []*model.Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Author{}, s.authors...)
}

// Game returns the first game with the given id.
func (s *Store) Game(id string) (*model.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, game := range s.games {
		if game.ID == id {
			return game, true
		}
	}

	return nil, false
}

func (s *Store) Review(id string) (*model.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, review := range s.reviews {
		if review.ID == id {
			return review, true
		}
	}

	return nil, false
}

func (s *Store) Author(id string) (*model.Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, author := range s.authors {
		if author.ID == id {
			return author, true
		}
	}

	return nil, false
}

// ReviewsOfGame returns the reviews referencing gameID in collection order.
// The result is never nil.
func (s *Store) ReviewsOfGame(gameID string) []*model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Review{}, s.reviewsByGame[gameID]...)
}

// ReviewsOfAuthor returns the reviews referencing authorID in collection
// order. The result is never nil.
func (s *Store) ReviewsOfAuthor(authorID string) []*model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Review{}, s.reviewsByAuthor[authorID]...)
}

// AddGame appends a new game. Ids come from a sequence that starts after the
// seeded games, so an id is never handed out twice even after deletions.
func (s *Store) AddGame(input model.AddGameInput) *model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastGameID++
	game := &model.Game{
		ID:       strconv.Itoa(s.lastGameID),
		Title:    input.Title,
		Platform: append([]string{}, input.Platform...),
	}
	s.games = append(s.games, game)

	return game
}

// DeleteGame removes every game with the given id and returns the remaining
// games.
func (s *Store) DeleteGame(id string) []*model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make([]*model.Game, 0, len(s.games))
	for _, game := range s.games {
		if game.ID == id {
			continue
		}
		games = append(games, game)
	}
	s.games = games

	return append([]*model.Game{}, s.games...)
}

// UpdateGame merges the non-nil fields of edits over the first game with
// the given id. It reports false when there is no such game.
func (s *Store) UpdateGame(id string, edits model.EditGameInput) (*model.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, game := range s.games {
		if game.ID != id {
			continue
		}

		updated := game.Clone()
		if edits.Title != nil {
			updated.Title = *edits.Title
		}
		if edits.Platform != nil {
			updated.Platform = append([]string{}, edits.Platform...)
		}
		s.games[i] = updated

		return updated, true
	}

	return nil, false
}

// Stats reports the current collection sizes.
func (s *Store) Stats() (games, reviews, authors int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.games), len(s.reviews), len(s.authors)
}
