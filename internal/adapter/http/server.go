package adapthttp

import (
	"net/http"

	"climatebuddy/internal/app"
)

// DemoCredential is a seeded login pair surfaced on the demo login screen.
type DemoCredential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	actions   *app.ActionService
	chat      *app.ChatService
	community *app.CommunityService
	dashboard *app.DashboardService
	oidc      OIDCConfig
	demo      []DemoCredential
	webDir    string

	disableAuth bool // tests only
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, actions *app.ActionService, chat *app.ChatService, community *app.CommunityService, dashboard *app.DashboardService, webDir string) *Server {
	return &Server{
		auth:      auth,
		actions:   actions,
		chat:      chat,
		community: community,
		dashboard: dashboard,
		webDir:    webDir,
	}
}

// SetDemoCredentials publishes seed login pairs on the demo endpoint.
func (s *Server) SetDemoCredentials(creds []DemoCredential) {
	s.demo = creds
}

// SetOIDC enables SSO login through the given provider configuration.
func (s *Server) SetOIDC(cfg OIDCConfig) {
	s.oidc = cfg
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/signup", s.handleSignup)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/forgot-password", s.handleForgotPassword)
	api.HandleFunc("/auth/validate", s.handleValidateToken)
	api.HandleFunc("/auth/demo", s.handleDemoCredentials)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api.Handle("/profile", s.authMiddleware(http.HandlerFunc(s.handleProfile)))

	api.Handle("/dashboard/data", s.authMiddleware(http.HandlerFunc(s.handleDashboardData)))

	api.HandleFunc("/chat/subjects", s.handleChatSubjects)
	api.Handle("/chat/", s.authMiddleware(http.HandlerFunc(s.handleChat)))

	api.HandleFunc("/actions/suggested", s.handleActionsSuggested)
	api.Handle("/actions", s.authMiddleware(http.HandlerFunc(s.handleActions)))
	api.Handle("/actions/complete", s.authMiddleware(http.HandlerFunc(s.handleActionComplete)))
	api.Handle("/actions/delete", s.authMiddleware(http.HandlerFunc(s.handleActionDelete)))
	api.Handle("/actions/stats", s.authMiddleware(http.HandlerFunc(s.handleActionStats)))

	api.Handle("/community/posts", s.authMiddleware(http.HandlerFunc(s.handleCommunityPosts)))
	api.Handle("/community/posts/like", s.authMiddleware(http.HandlerFunc(s.handleCommunityLike)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", s.loggingMiddleware(api)))
	root.Handle("/", spaFromDisk(s.webDir))

	return withNoCache(root)
}
