package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType is the physical medium a beat is sold on.
type ProductType string

const (
	ProductTypeCD  ProductType = "cd"
	ProductTypeUSB ProductType = "usb"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeCD || t == ProductTypeUSB
}

type Product struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Type            ProductType     `json:"type"`
	ImageURL        string          `json:"image_url"`
	AudioPreviewURL string          `json:"audio_preview_url,omitempty"`
	Genre           string          `json:"genre"`
	Artist          string          `json:"artist"`
	CreatedAt       time.Time       `json:"created_at"`
	InStock         bool            `json:"in_stock"`
	StockCount      int             `json:"stock_count"`
}
