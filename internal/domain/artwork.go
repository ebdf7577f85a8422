package domain

import "time"

// ArtCategory classifies gallery artworks.
type ArtCategory string

const (
	CategoryPainting    ArtCategory = "painting"
	CategoryDigital     ArtCategory = "digital"
	CategoryPhotography ArtCategory = "photography"
	CategorySculpture   ArtCategory = "sculpture"
	CategoryMixed       ArtCategory = "mixed"
)

func (c ArtCategory) Valid() bool {
	switch c {
	case CategoryPainting, CategoryDigital, CategoryPhotography, CategorySculpture, CategoryMixed:
		return true
	}
	return false
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Website   string `json:"website,omitempty"`
}

type Artist struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Bio             string      `json:"bio"`
	ProfileImageURL string      `json:"profile_image_url"`
	SocialLinks     SocialLinks `json:"social_links"`
	Verified        bool        `json:"verified"`
}

// ArtWork is a gallery piece. Favorites are tracked by id in the app state,
// the artwork itself is never mutated.
type ArtWork struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	Artist      Artist      `json:"artist"`
	Category    ArtCategory `json:"category"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
	Likes       int         `json:"likes"`
	Views       int         `json:"views"`
}
