package domain

import "time"

// Product is an orderable menu item. Products are read-only for the storefront.
type Product struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	UnitPrice   float64   `json:"price" yaml:"price"`
	Category    string    `json:"category" yaml:"category"`
	ImageURL    string    `json:"imageUrl,omitempty" yaml:"image_url"`
	Featured    bool      `json:"featured,omitempty" yaml:"featured"`
	Available   bool      `json:"available" yaml:"available"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"-"`
}

type Testimonial struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	AvatarURL string    `json:"avatarUrl,omitempty" yaml:"avatar_url"`
	Rating    int       `json:"rating" yaml:"rating"`
	Comment   string    `json:"comment" yaml:"comment"`
	Likes     int       `json:"likes" yaml:"likes"`
	Dislikes  int       `json:"dislikes" yaml:"dislikes"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"-"`
}

// Reaction is a like or dislike left on a testimonial.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}
