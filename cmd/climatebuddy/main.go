package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	adapthttp "climatebuddy/internal/adapter/http"
	"climatebuddy/internal/adapter/memory"
	"climatebuddy/internal/adapter/postgres"
	"climatebuddy/internal/adapter/weatherapi"
	"climatebuddy/internal/app"
	"climatebuddy/internal/domain"
)

func main() {
	_ = godotenv.Load()

	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	var (
		accounts  domain.AccountRepository
		sessions  domain.SessionRepository
		actions   domain.ActionRepository
		posts     domain.CommunityRepository
		demoCreds []memory.DemoCredential
	)

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		accounts = db
		sessions = postgres.NewSessionRepo(db)
		actions = db
		posts = db
	} else {
		db, creds := memory.Seed()
		accounts = db
		sessions = db.NewSessionRepo()
		actions = db
		posts = db
		demoCreds = creds
		log.Printf("DATABASE_URL not set, using seeded in-memory store")
	}

	signingKey := []byte(os.Getenv("AUTH_SIGNING_KEY"))
	if len(signingKey) == 0 {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			log.Fatalf("signing key: %v", err)
		}
		log.Printf("AUTH_SIGNING_KEY not set, sessions will not survive restarts")
	}

	authSvc := app.NewAuthService(accounts, sessions, signingKey)
	authSvc.SimulateLatency = os.Getenv("AUTH_SIMULATE_LATENCY") == "1"

	var provider domain.WeatherProvider
	if apiURL := os.Getenv("WEATHER_API_URL"); apiURL != "" {
		provider = weatherapi.New(apiURL, 10*time.Second)
	}

	actionSvc := app.NewActionService(actions, accounts)
	chatSvc := app.NewChatService()
	communitySvc := app.NewCommunityService(posts, accounts)
	dashboardSvc := app.NewDashboardService(provider)

	srv := adapthttp.New(authSvc, actionSvc, chatSvc, communitySvc, dashboardSvc, webDir)

	creds := make([]adapthttp.DemoCredential, 0, len(demoCreds))
	for _, c := range demoCreds {
		creds = append(creds, adapthttp.DemoCredential{Name: c.Name, Email: c.Email, Password: c.Password})
	}
	srv.SetDemoCredentials(creds)

	if cfg := oidcFromEnv(); cfg.Enabled {
		srv.SetOIDC(cfg)
	}

	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func oidcFromEnv() adapthttp.OIDCConfig {
	issuer := os.Getenv("OIDC_ISSUER")
	clientID := os.Getenv("OIDC_CLIENT_ID")
	if issuer == "" || clientID == "" {
		return adapthttp.OIDCConfig{}
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		log.Fatalf("oidc provider: %v", err)
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  env("OIDC_REDIRECT_URL", "http://localhost:8080/api/auth/sso/callback"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
