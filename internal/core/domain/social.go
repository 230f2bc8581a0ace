package domain

import (
	"fmt"
	"time"
)

// Sentiment splits mentions into three shares. The shares conventionally
// add up to 100 but nothing enforces it.
type Sentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

func (s Sentiment) Validate() error {
	for name, v := range map[string]float64{"positive": s.Positive, "negative": s.Negative, "neutral": s.Neutral} {
		if v < 0 || v > 100 {
			return fieldError("sentiment."+name, "must be within [0,100]")
		}
	}
	return nil
}

type SocialTrend struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Mentions      int64     `json:"mentions"`
	Sentiment     Sentiment `json:"sentiment"`
	Platform      string    `json:"platform"`
	Hashtag       string    `json:"hashtag,omitempty"`
	PeakHour      string    `json:"peak_hour,omitempty"`
	TrendingSince time.Time `json:"trending_since"`
}

func (t SocialTrend) Validate() error {
	if t.ID == "" {
		return fieldError("trend.id", "must not be empty")
	}
	return t.Sentiment.Validate()
}

type TrendList struct {
	Count  int           `json:"count"`
	Trends []SocialTrend `json:"trends"`
}

func (l TrendList) Validate() error {
	for i, t := range l.Trends {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trends[%d]: %w", i, err)
		}
	}
	return nil
}

type SentimentPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Positive     float64   `json:"positive"`
	Negative     float64   `json:"negative"`
	Neutral      float64   `json:"neutral"`
	MentionCount int64     `json:"mention_count"`
}

// SentimentSeries is the hourly sentiment of one topic over the last day.
type SentimentSeries struct {
	Topic         string           `json:"topic"`
	DataPoints    []SentimentPoint `json:"data_points"`
	Overall       Sentiment        `json:"overall"`
	TotalMentions int64            `json:"total_mentions"`
}

func (s SentimentSeries) Validate() error {
	if s.Topic == "" {
		return fieldError("sentiment.topic", "must not be empty")
	}
	return s.Overall.Validate()
}
