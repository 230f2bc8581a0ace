package domain

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		value Validator
		field string
	}{
		{
			name:  "valid scraper",
			value: ScraperStatus{ID: "scraper-001", Status: ScraperStateRunning, SuccessRate: 99.2},
		},
		{
			name:  "unknown scraper state",
			value: ScraperStatus{ID: "scraper-001", Status: "sleeping"},
			field: "scraper.status",
		},
		{
			name:  "success rate out of range",
			value: ScraperStatus{ID: "scraper-001", Status: ScraperStateIdle, SuccessRate: 101},
			field: "scraper.success_rate",
		},
		{
			name: "dashboard reports nested scraper",
			value: DashboardStats{TotalScrapers: 1, Scrapers: ScraperStatuses{
				{ID: "", Status: ScraperStatePaused},
			}},
			field: "scraper.id",
		},
		{
			name:  "sentiment shares need not sum to 100",
			value: SocialTrend{ID: "t1", Sentiment: Sentiment{Positive: 80, Negative: 40, Neutral: 10}},
		},
		{
			name:  "negative sentiment share",
			value: SocialTrend{ID: "t1", Sentiment: Sentiment{Positive: -1}},
			field: "sentiment.positive",
		},
		{
			name:  "product rating above five",
			value: ProductList{Products: []Product{{ID: "elec-001", Price: 10, Rating: 5.5}}},
			field: "product.rating",
		},
		{
			name:  "article without url",
			value: NewsFeed{Articles: []NewsArticle{{ID: "news-001"}}},
			field: "article.url",
		},
		{
			name:  "coin without symbol",
			value: CryptoPrices{Prices: []CryptoPrice{{ID: "bitcoin", Price: 1}}},
			field: "crypto.symbol",
		},
		{
			name:  "forecast precipitation out of range",
			value: WeatherData{City: "Paris", Forecast: []WeatherForecast{{Precipitation: 120}}},
			field: "precipitation",
		},
		{
			name:  "progress step beyond total",
			value: ScraperProgress{Step: 12, TotalSteps: 11, Status: RunStatusRunning},
			field: "progress.step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestScraperProgressDone(t *testing.T) {
	if (ScraperProgress{Status: RunStatusRunning}).Done() {
		t.Error("running step reported done")
	}
	if !(ScraperProgress{Status: RunStatusComplete}).Done() {
		t.Error("complete step not reported done")
	}
}
