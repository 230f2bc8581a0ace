package domain

import "fmt"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Source       string    `json:"source"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Change24h    float64   `json:"change_24h"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	InStock      bool      `json:"in_stock"`
	URL          string    `json:"url"`
	PriceHistory []float64 `json:"price_history"` // Oldest first
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fieldError("product.id", "must not be empty")
	}
	if p.Price < 0 {
		return fieldError("product.price", "must not be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fieldError("product.rating", "must be within [0,5]")
	}
	return nil
}

type ProductList struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

func (l ProductList) Validate() error {
	for i, p := range l.Products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("products[%d]: %w", i, err)
		}
	}
	return nil
}

type PricePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

type PriceHistory struct {
	ProductID  string       `json:"product_id"`
	DataPoints int          `json:"data_points"`
	History    []PricePoint `json:"price_history"`
}

func (h PriceHistory) Validate() error {
	if h.ProductID == "" {
		return fieldError("price_history.product_id", "must not be empty")
	}
	for i, p := range h.History {
		if p.Price < 0 {
			return fmt.Errorf("price_history[%d]: %w", i, fieldError("price", "must not be negative"))
		}
	}
	return nil
}
