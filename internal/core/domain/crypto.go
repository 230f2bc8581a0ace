package domain

import "fmt"

type CryptoPrice struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	Currency         string    `json:"currency"`
	Change24h        float64   `json:"change_24h"`
	Change24hPercent float64   `json:"change_24h_percent"`
	Change7dPercent  float64   `json:"change_7d_percent"`
	MarketCap        int64     `json:"market_cap"`
	Volume24h        int64     `json:"volume_24h"`
	Sparkline        []float64 `json:"sparkline"` // Hourly, oldest first
	Rank             int       `json:"rank"`
}

func (c CryptoPrice) Validate() error {
	if c.Symbol == "" {
		return fieldError("crypto.symbol", "must not be empty")
	}
	if c.Price < 0 {
		return fieldError("crypto.price", "must not be negative")
	}
	return nil
}

type CryptoPrices struct {
	Count    int           `json:"count"`
	Currency string        `json:"currency"`
	Prices   []CryptoPrice `json:"prices"`
}

func (p CryptoPrices) Validate() error {
	for i, c := range p.Prices {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("prices[%d]: %w", i, err)
		}
	}
	return nil
}
