package domain

import (
	"fmt"
	"time"
)

type CurrentConditions struct {
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"` // km/h
	WindDirection string  `json:"wind_direction"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	UVIndex       int     `json:"uv_index"`
	VisibilityKM  float64 `json:"visibility_km"`
	PressureHPA   int     `json:"pressure_hpa"`
}

type WeatherForecast struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	TempHigh      float64 `json:"temp_high"`
	TempLow       float64 `json:"temp_low"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation int     `json:"precipitation"` // Chance in percent
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
}

type WeatherData struct {
	City        string            `json:"city"`
	Country     string            `json:"country"`
	Current     CurrentConditions `json:"current"`
	Forecast    []WeatherForecast `json:"forecast"`
	LastUpdated time.Time         `json:"last_updated"`
}

func (w WeatherData) Validate() error {
	if w.City == "" {
		return fieldError("weather.city", "must not be empty")
	}
	for i, f := range w.Forecast {
		if f.Precipitation < 0 || f.Precipitation > 100 {
			return fmt.Errorf("forecast[%d]: %w", i, fieldError("precipitation", "must be within [0,100]"))
		}
	}
	return nil
}
