package app

import (
	"context"
	"log"

	"climatebuddy/internal/domain"
)

// DashboardService fetches weather and air-quality data for the dashboard
// view. The external API is an opaque collaborator; when it fails for any
// reason the service falls back to a fixed mock dataset so the dashboard
// always renders.
type DashboardService struct {
	provider domain.WeatherProvider
}

// NewDashboardService creates a DashboardService on top of the given
// weather provider.
func NewDashboardService(provider domain.WeatherProvider) *DashboardService {
	return &DashboardService{provider: provider}
}

// GetData returns dashboard data for the city, covering the last days days.
func (s *DashboardService) GetData(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
	if city == "" {
		city = "London"
	}
	if days <= 0 || days > 90 {
		days = 30
	}

	if s.provider == nil {
		return MockDashboard(city), nil
	}

	data, err := s.provider.FetchDashboard(ctx, city, days)
	if err != nil {
		log.Printf("dashboard fetch failed for %s, serving mock data: %v", city, err)
		return MockDashboard(city), nil
	}
	return data, nil
}

// MockDashboard is the fallback dataset served when the weather API is
// unreachable.
func MockDashboard(city string) *domain.DashboardData {
	return &domain.DashboardData{
		City: city,
		CurrentWeather: domain.CurrentWeather{
			City:          city,
			Country:       "US",
			Weather:       "Clear Sky",
			Temperature:   "22°C",
			FeelsLike:     "24°C",
			Humidity:      "65%",
			WindSpeed:     "3.2 m/s",
			WindDirection: "180°",
			Pressure:      "1013 hPa",
			Visibility:    "10.0 km",
			WeatherIcon:   "01d",
			UVIndex:       5,
		},
		SummaryStats: map[string]string{
			"avg_temperature": "22°C",
			"humidity":        "65%",
			"air_quality":     "Good",
			"wind_speed":      "3.2 m/s",
			"pressure":        "1013 hPa",
			"visibility":      "10.0 km",
		},
		Charts: []domain.Chart{
			{ChartType: "temperature_trend", Data: map[string]any{}, Layout: map[string]any{}},
			{ChartType: "air_quality_pie", Data: map[string]any{}, Layout: map[string]any{}},
			{ChartType: "weather_distribution", Data: map[string]any{}, Layout: map[string]any{}},
		},
		AirQuality: domain.AirQuality{
			AQI:          45,
			Category:     "Good",
			HealthImpact: "Air quality is satisfactory, and air pollution poses little or no risk.",
			Components: domain.AirQualityComponents{
				PM25: 12.5,
				PM10: 18.3,
				NO2:  25.1,
				O3:   45.2,
				SO2:  8.7,
				CO:   0.8,
			},
		},
		Forecast: []domain.ForecastEntry{},
	}
}
