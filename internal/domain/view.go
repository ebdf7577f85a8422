package domain

// View is the screen currently selected by the client.
type View string

const (
	ViewHome    View = "home"
	ViewShop    View = "shop"
	ViewGallery View = "gallery"
	ViewProfile View = "profile"
)

func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewShop, ViewGallery, ViewProfile:
		return true
	}
	return false
}
