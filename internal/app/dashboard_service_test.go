package app

import (
	"context"
	"errors"
	"testing"

	"climatebuddy/internal/domain"
)

type mockWeatherProvider struct {
	fetchFn func(ctx context.Context, city string, days int) (*domain.DashboardData, error)
}

func (m *mockWeatherProvider) FetchDashboard(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
	return m.fetchFn(ctx, city, days)
}

func TestDashboardService_GetData_Passthrough(t *testing.T) {
	var gotCity string
	var gotDays int
	provider := &mockWeatherProvider{
		fetchFn: func(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
			gotCity, gotDays = city, days
			return &domain.DashboardData{City: city}, nil
		},
	}
	svc := NewDashboardService(provider)

	data, err := svc.GetData(context.Background(), "Paris", 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data.City != "Paris" {
		t.Errorf("expected Paris, got %s", data.City)
	}
	if gotCity != "Paris" || gotDays != 7 {
		t.Errorf("expected provider called with Paris/7, got %s/%d", gotCity, gotDays)
	}
}

func TestDashboardService_GetData_Defaults(t *testing.T) {
	var gotCity string
	var gotDays int
	provider := &mockWeatherProvider{
		fetchFn: func(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
			gotCity, gotDays = city, days
			return &domain.DashboardData{City: city}, nil
		},
	}
	svc := NewDashboardService(provider)

	if _, err := svc.GetData(context.Background(), "", 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotCity != "London" || gotDays != 30 {
		t.Errorf("expected defaults London/30, got %s/%d", gotCity, gotDays)
	}

	// Out-of-range day counts fall back to the default window.
	if _, err := svc.GetData(context.Background(), "London", 365); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotDays != 30 {
		t.Errorf("expected 365 clamped to 30, got %d", gotDays)
	}
}

func TestDashboardService_GetData_FallsBackOnError(t *testing.T) {
	provider := &mockWeatherProvider{
		fetchFn: func(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewDashboardService(provider)

	data, err := svc.GetData(context.Background(), "Paris", 7)
	if err != nil {
		t.Fatalf("fallback must not surface the provider error, got %v", err)
	}
	if data.City != "Paris" {
		t.Errorf("expected mock data for the requested city, got %s", data.City)
	}
	if data.AirQuality.AQI != 45 {
		t.Errorf("expected the mock AQI, got %d", data.AirQuality.AQI)
	}
}

func TestDashboardService_GetData_NoProvider(t *testing.T) {
	svc := NewDashboardService(nil)

	data, err := svc.GetData(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data.City != "London" {
		t.Errorf("expected mock data for the default city, got %s", data.City)
	}
}
