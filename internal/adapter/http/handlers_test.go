package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	adapthttp "climatebuddy/internal/adapter/http"
	"climatebuddy/internal/adapter/memory"
	"climatebuddy/internal/app"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>app shell</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	db, creds := memory.Seed()
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), []byte("test-signing-key"))
	srv := adapthttp.New(
		authSvc,
		app.NewActionService(db, db),
		app.NewChatService(),
		app.NewCommunityService(db, db),
		app.NewDashboardService(nil),
		webDir,
	)

	demo := make([]adapthttp.DemoCredential, 0, len(creds))
	for _, c := range creds {
		demo = append(demo, adapthttp.DemoCredential{Name: c.Name, Email: c.Email, Password: c.Password})
	}
	srv.SetDemoCredentials(demo)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, http.MethodPost, url, token, body)
}

func getJSON(t *testing.T, url, token string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, http.MethodGet, url, token, nil)
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp, decoded
}

func loginAs(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := postJSON(t, ts.URL+"/api/auth/login", "", map[string]any{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d, body %v", email, resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/auth/signup", "", map[string]any{
		"name":            "Ann",
		"email":           "ann@example.com",
		"password":        "Abcdefg1",
		"confirmPassword": "Abcdefg1",
		"agreeToTerms":    true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup: status %d, body %v", resp.StatusCode, body)
	}
	if body["success"] != true {
		t.Fatalf("signup: expected success, got %v", body)
	}
	token := body["token"].(string)

	// Fresh token validates
	resp, body = getJSON(t, ts.URL+"/api/auth/validate", token)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("validate: status %d, body %v", resp.StatusCode, body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != "ann@example.com" {
		t.Errorf("validate returned wrong user: %v", user)
	}

	// Logging in again with the new credentials works
	loginAs(t, ts, "ann@example.com", "Abcdefg1")

	// Logout revokes the token
	resp, body = postJSON(t, ts.URL+"/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("logout: status %d, body %v", resp.StatusCode, body)
	}
	resp, body = getJSON(t, ts.URL+"/api/auth/validate", token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("validate after logout: expected 401, got %d (%v)", resp.StatusCode, body)
	}
	if body["error"] != "Invalid token" {
		t.Errorf("expected Invalid token, got %v", body["error"])
	}
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/auth/login", "", map[string]any{
		"email": "emma@climatebuddy.demo", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", resp.StatusCode)
	}
	if body["error"] != "Invalid email or password" {
		t.Errorf("unexpected error: %v", body["error"])
	}

	resp, body2 := postJSON(t, ts.URL+"/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "whatever",
	})
	if resp.StatusCode != http.StatusUnauthorized || body2["error"] != body["error"] {
		t.Error("unknown email must be indistinguishable from a wrong password")
	}

	resp, body = postJSON(t, ts.URL+"/api/auth/login", "", map[string]any{
		"email": "", "password": "",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing credentials: expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Email and password are required" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/auth/signup", "", map[string]any{
		"name":            "Emma Clone",
		"email":           "EMMA@climatebuddy.demo",
		"password":        "Abcdefg1",
		"confirmPassword": "Abcdefg1",
		"agreeToTerms":    true,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
	if body["error"] != "An account with this email already exists" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestForgotPassword(t *testing.T) {
	ts := newTestServer(t)

	want := "If an account with this email exists, a password reset link has been sent."
	for _, email := range []string{"emma@climatebuddy.demo", "nobody@example.com"} {
		resp, body := postJSON(t, ts.URL+"/api/auth/forgot-password", "", map[string]any{"email": email})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("forgot-password %s: status %d", email, resp.StatusCode)
		}
		if body["message"] != want {
			t.Errorf("forgot-password %s: got %v", email, body["message"])
		}
	}
}

func TestDemoCredentialsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := getJSON(t, ts.URL+"/api/auth/demo", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	creds := body["credentials"].([]any)
	if len(creds) != 3 {
		t.Errorf("expected 3 demo credentials, got %d", len(creds))
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := getJSON(t, ts.URL+"/api/profile", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Errorf("expected success false, got %v", body)
	}
}

func TestProfileGetAndUpdate(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "sofia@climatebuddy.demo", "RecycleMore3")

	resp, body := getJSON(t, ts.URL+"/api/profile", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get profile: status %d", resp.StatusCode)
	}
	profile := body["profile"].(map[string]any)
	if profile["level"].(float64) != 1 {
		t.Errorf("expected level 1, got %v", profile["level"])
	}

	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/profile", token, map[string]any{
		"location": "Lisbon",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile: status %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "Profile updated successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	profile = body["profile"].(map[string]any)
	if profile["location"] != "Lisbon" {
		t.Errorf("expected patched location, got %v", profile["location"])
	}
	if profile["language"] != "en" {
		t.Errorf("unpatched fields must be retained, got %v", profile["language"])
	}
}

func TestActionsFlow(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "sofia@climatebuddy.demo", "RecycleMore3")

	resp, body := getJSON(t, ts.URL+"/api/actions/suggested", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggested: status %d", resp.StatusCode)
	}
	if items := body["items"].([]any); len(items) != 8 {
		t.Errorf("expected 8 suggested actions, got %d", len(items))
	}

	resp, body = postJSON(t, ts.URL+"/api/actions", token, map[string]any{
		"title":      "Walk to school",
		"category":   "transport",
		"difficulty": "easy",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add action: status %d, body %v", resp.StatusCode, body)
	}
	action := body["action"].(map[string]any)
	actionID := action["id"].(string)
	if action["points"].(float64) != 10 {
		t.Errorf("expected 10 points for easy, got %v", action["points"])
	}

	resp, body = postJSON(t, ts.URL+"/api/actions/complete", token, map[string]any{"id": actionID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status %d, body %v", resp.StatusCode, body)
	}
	profile := body["profile"].(map[string]any)
	if profile["points"].(float64) != 10 {
		t.Errorf("expected 10 profile points, got %v", profile["points"])
	}

	resp, body = getJSON(t, ts.URL+"/api/actions/stats", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	if body["completed"].(float64) != 1 {
		t.Errorf("expected 1 completed, got %v", body["completed"])
	}

	resp, body = postJSON(t, ts.URL+"/api/actions/complete", token, map[string]any{"id": "missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("complete missing: expected 404, got %d (%v)", resp.StatusCode, body)
	}
}

func TestActionsListEmptyIsArray(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "sofia@climatebuddy.demo", "RecycleMore3")

	// A user with no actions gets an empty array, never null.
	resp, body := getJSON(t, ts.URL+"/api/actions", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	items, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("expected items to be an array, got %T", body["items"])
	}
	if len(items) != 0 {
		t.Errorf("expected no actions, got %d", len(items))
	}
}

func TestCommunityFlow(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "liam@climatebuddy.demo", "SolarPower2")

	resp, body := getJSON(t, ts.URL+"/api/community/posts", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list posts: status %d", resp.StatusCode)
	}
	if items := body["items"].([]any); len(items) != 2 {
		t.Errorf("expected 2 seeded posts, got %d", len(items))
	}

	resp, body = postJSON(t, ts.URL+"/api/community/posts", token, map[string]any{
		"content": "Switched my commute to the train this week.",
		"type":    "achievement",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create post: status %d, body %v", resp.StatusCode, body)
	}
	post := body["post"].(map[string]any)
	if post["userName"] != "Liam Rivers" {
		t.Errorf("expected the author resolved from the account, got %v", post["userName"])
	}

	resp, body = postJSON(t, ts.URL+"/api/community/posts/like", token, map[string]any{
		"id": post["id"],
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("like: status %d", resp.StatusCode)
	}
	if body["likes"].(float64) != 1 {
		t.Errorf("expected 1 like, got %v", body["likes"])
	}

	resp, _ = postJSON(t, ts.URL+"/api/community/posts/like", token, map[string]any{"id": "missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("like missing: expected 404, got %d", resp.StatusCode)
	}
}

func TestChatEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "liam@climatebuddy.demo", "SolarPower2")

	resp, body := getJSON(t, ts.URL+"/api/chat/subjects", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subjects: status %d", resp.StatusCode)
	}
	if subjects := body["subjects"].([]any); len(subjects) != 6 {
		t.Errorf("expected 6 subjects, got %d", len(subjects))
	}

	resp, body = postJSON(t, ts.URL+"/api/chat/", token, map[string]any{
		"user_message":    "what is a carbon footprint?",
		"age_group":       "teen",
		"knowledge_level": "beginner",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat: status %d, body %v", resp.StatusCode, body)
	}
	if body["reply"] == "" {
		t.Error("expected a reply")
	}
	if _, ok := body["suggested_topics"].([]any); !ok {
		t.Error("expected suggested topics")
	}
}

func TestDashboardData(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "liam@climatebuddy.demo", "SolarPower2")

	resp, body := getJSON(t, ts.URL+"/api/dashboard/data?city=Berlin&days=7", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: status %d", resp.StatusCode)
	}
	if body["city"] != "Berlin" {
		t.Errorf("expected Berlin, got %v", body["city"])
	}
	aq := body["air_quality"].(map[string]any)
	if aq["category"] != "Good" {
		t.Errorf("expected mock air quality, got %v", aq)
	}

	resp, _ = getJSON(t, ts.URL+"/api/dashboard/data", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated dashboard: expected 401, got %d", resp.StatusCode)
	}
}

func TestHealthAndConfig(t *testing.T) {
	ts := newTestServer(t)

	resp, body := getJSON(t, ts.URL+"/api/health", "")
	if resp.StatusCode != http.StatusOK || body["ok"] != true {
		t.Errorf("health: status %d, body %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, ts.URL+"/api/config", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("config: status %d", resp.StatusCode)
	}
	if body["sso_enabled"] != false {
		t.Errorf("expected sso disabled, got %v", body["sso_enabled"])
	}
}

func TestSPAFallback(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/", "/dashboard", "/some/deep/route"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if want := "app shell"; !bytes.Contains(b, []byte(want)) {
			t.Errorf("%s: expected the index shell, got %q", path, b)
		}
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	ts := newTestServer(t)
	token := loginAs(t, ts, "liam@climatebuddy.demo", "SolarPower2")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("cookie auth: expected 200, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/auth/login")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
