package domain

// Catalog is the static browsing data the store is seeded with.
type Catalog struct {
	Products []Product `json:"products"`
	Artworks []ArtWork `json:"artworks"`
}
