package domain

import (
	"fmt"
	"time"
)

type NewsArticle struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Source          string    `json:"source"`
	Published       time.Time `json:"published"`
	Category        string    `json:"category"`
	Summary         string    `json:"summary"`
	URL             string    `json:"url"`
	Author          string    `json:"author,omitempty"`
	ReadTimeMinutes int       `json:"read_time_minutes,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
}

func (a NewsArticle) Validate() error {
	if a.ID == "" {
		return fieldError("article.id", "must not be empty")
	}
	if a.URL == "" {
		return fieldError("article.url", "must not be empty")
	}
	return nil
}

type NewsFeed struct {
	Count    int           `json:"count"`
	Articles []NewsArticle `json:"articles"`
}

func (f NewsFeed) Validate() error {
	for i, a := range f.Articles {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("articles[%d]: %w", i, err)
		}
	}
	return nil
}
