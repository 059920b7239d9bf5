package domain

import "context"

// CurrentWeather is the live weather snapshot for a city, shaped the way the
// external weather API returns it (presentational strings included).
type CurrentWeather struct {
	City          string `json:"city"`
	Country       string `json:"country"`
	Weather       string `json:"weather"`
	Temperature   string `json:"temperature"`
	FeelsLike     string `json:"feels_like"`
	Humidity      string `json:"humidity"`
	WindSpeed     string `json:"wind_speed"`
	WindDirection string `json:"wind_direction"`
	Pressure      string `json:"pressure"`
	Visibility    string `json:"visibility"`
	WeatherIcon   string `json:"weather_icon"`
	UVIndex       int    `json:"uv_index"`
}

// AirQuality describes the air-quality index and its pollutant components.
type AirQuality struct {
	AQI          int                  `json:"aqi"`
	Category     string               `json:"category"`
	HealthImpact string               `json:"health_impact"`
	Components   AirQualityComponents `json:"components"`
}

// AirQualityComponents holds pollutant concentrations in µg/m³ (CO in mg/m³).
type AirQualityComponents struct {
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`
}

// ForecastEntry is one step in the hourly/daily forecast.
type ForecastEntry struct {
	Datetime    string `json:"datetime"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	Weather     string `json:"weather"`
	WeatherIcon string `json:"weather_icon"`
	WindSpeed   string `json:"wind_speed"`
	Pressure    string `json:"pressure"`
}

// Chart is an opaque chart payload rendered by the client.
type Chart struct {
	ChartType string `json:"chart_type"`
	Data      any    `json:"data"`
	Layout    any    `json:"layout"`
}

// DashboardData aggregates everything the dashboard view needs.
type DashboardData struct {
	City           string            `json:"city"`
	CurrentWeather CurrentWeather    `json:"current_weather"`
	SummaryStats   map[string]string `json:"summary_stats"`
	Charts         []Chart           `json:"charts"`
	AirQuality     AirQuality        `json:"air_quality"`
	Forecast       []ForecastEntry   `json:"forecast"`
}

// WeatherProvider abstracts the external weather/air-quality API.
type WeatherProvider interface {
	FetchDashboard(ctx context.Context, city string, days int) (*DashboardData, error)
}
