package model

type Game struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Platform []string `json:"platform" yaml:"platform"`
}

type Review struct {
	ID       string `json:"id" yaml:"id"`
	Rating   int    `json:"rating" yaml:"rating"`
	Content  string `json:"content" yaml:"content"`
	GameID   string `json:"game_id" yaml:"game_id"`
	AuthorID string `json:"author_id" yaml:"author_id"`
}

type Author struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Verified bool   `json:"verified" yaml:"verified"`
}

// Dataset is the seed content of a store.
type Dataset struct {
	Games   []*Game   `json:"games" yaml:"games"`
	Reviews []*Review `json:"reviews" yaml:"reviews"`
	Authors []*Author `json:"authors" yaml:"authors"`
}

// Clone returns a deep copy so a seed can be reused for several stores.
func (ds *Dataset) Clone() *Dataset {
	if ds == nil {
		return &Dataset{}
	}

	cloned := &Dataset{
		Games:   make([]*Game, 0, len(ds.Games)),
		Reviews: make([]*Review, 0, len(ds.Reviews)),
		Authors: make([]*Author, 0, len(ds.Authors)),
	}
	for _, game := range ds.Games {
		cloned.Games = append(cloned.Games, game.Clone())
	}
	for _, review := range ds.Reviews {
		review := *review
		cloned.Reviews = append(cloned.Reviews, &review)
	}
	for _, author := range ds.Authors {
		author := *author
		cloned.Authors = append(cloned.Authors, &author)
	}

	return cloned
}

func (g *Game) Clone() *Game {
	cloned := *g
	if g.Platform != nil {
		cloned.Platform = append([]string{}, g.Platform...)
	}
	return &cloned
}

type AddGameInput struct {
	Title    string   `json:"title" mapstructure:"title"`
	Platform []string `json:"platform" mapstructure:"platform"`
}

// EditGameInput holds a partial update. nil fields are left untouched.
type EditGameInput struct {
	Title    *string  `json:"title,omitempty" mapstructure:"title"`
	Platform []string `json:"platform,omitempty" mapstructure:"platform"`
}
