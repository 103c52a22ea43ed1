package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/api/handlers"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/config"
	"github.com/Aakash768/imf-gadget-api/internal/middleware"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	"github.com/Aakash768/imf-gadget-api/internal/repository/memory"
	"github.com/Aakash768/imf-gadget-api/internal/services"
	"github.com/Aakash768/imf-gadget-api/internal/worker"
	"github.com/google/uuid"
)

type fixture struct {
	router http.Handler
	users  *memory.UsersRepo
	tm     *auth.TokenManager
	wp     *worker.Pool

	adminToken string
	userToken  string
	adminID    string
	userID     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := memory.NewUsers()
	gadgets := memory.NewGadgets()
	logs := memory.NewAuditLogs()
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	tm := auth.NewTokenManager("test-secret", "test-issuer", time.Hour)
	userSvc := services.NewUserService(users, tm, logs, wp)
	gadgetSvc := services.NewGadgetService(gadgets, logs, wp)

	cfg := config.Config{Env: "dev", RateRPS: 1000, TokenTTL: time.Hour}
	router := NewRouter(RouterDeps{
		Cfg:     cfg,
		Auth:    middleware.NewAuthMiddleware(tm, users),
		Users:   handlers.NewUserHandler(userSvc, tm),
		Gadgets: handlers.NewGadgetHandler(gadgetSvc),
	})

	ctx := context.Background()
	hash, err := auth.HashPassword("Adm1n!pass")
	if err != nil {
		t.Fatal(err)
	}
	admin, err := users.Create(ctx, "admin.user", hash, models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := users.Create(ctx, "plain.user", hash, models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	adminToken, _, err := tm.Issue(admin.ID, admin.Username, string(admin.Role))
	if err != nil {
		t.Fatal(err)
	}
	userToken, _, err := tm.Issue(plain.ID, plain.Username, string(plain.Role))
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		router:     router,
		users:      users,
		tm:         tm,
		wp:         wp,
		adminToken: adminToken,
		userToken:  userToken,
		adminID:    admin.ID,
		userID:     plain.ID,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

type gadgetResp struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	Codename                  string `json:"codename"`
	Status                    string `json:"status"`
	MissionSuccessProbability string `json:"missionSuccessProbability"`
}

func TestAuthGate(t *testing.T) {
	f := newFixture(t)
	expired := auth.NewTokenManager("test-secret", "test-issuer", -time.Minute)
	expiredToken, _, _ := expired.Issue(f.userID, "plain.user", "user")
	badSig := auth.NewTokenManager("other-secret", "test-issuer", time.Hour)
	badSigToken, _, _ := badSig.Issue(f.userID, "plain.user", "user")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/gadgets", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/gadgets", "garbage", http.StatusUnauthorized},
		{"expired token", http.MethodGet, "/api/v1/gadgets", expiredToken, http.StatusUnauthorized},
		{"bad signature", http.MethodGet, "/api/v1/gadgets", badSigToken, http.StatusUnauthorized},
		{"user can list", http.MethodGet, "/api/v1/gadgets", f.userToken, http.StatusOK},
		{"admin can list", http.MethodGet, "/api/v1/gadgets", f.adminToken, http.StatusOK},
		{"user cannot create", http.MethodPost, "/api/v1/gadgets", f.userToken, http.StatusForbidden},
		{"user cannot decommission", http.MethodDelete, "/api/v1/gadgets/x", f.userToken, http.StatusForbidden},
		{"user cannot self-destruct", http.MethodPost, "/api/v1/gadgets/x/self-destruct", f.userToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.method == http.MethodPost && tt.path == "/api/v1/gadgets" {
				body = map[string]string{"name": "Watch"}
			}
			rec := f.do(t, tt.method, tt.path, tt.token, body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAuthGate_DeletedUser(t *testing.T) {
	f := newFixture(t)
	f.users.Delete(f.userID)

	rec := f.do(t, http.MethodGet, "/api/v1/gadgets", f.userToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for token of a deleted user", rec.Code)
	}
}

func TestEndToEnd_CreateThenSelfDestruct(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/gadgets", f.adminToken, map[string]string{"name": "Watch"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[gadgetResp](t, rec)
	if created.Status != "Available" {
		t.Errorf("Status = %q, want Available", created.Status)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Errorf("ID = %q, not a UUID", created.ID)
	}
	if !regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ [A-Z][a-z]+$`).MatchString(created.Codename) {
		t.Errorf("Codename = %q, want Word Word Word", created.Codename)
	}
	if !regexp.MustCompile(`^\d+\.\d{2}%$`).MatchString(created.MissionSuccessProbability) {
		t.Errorf("MissionSuccessProbability = %q", created.MissionSuccessProbability)
	}

	// Self-destruct by codename; spaces must survive percent-encoding.
	path := "/api/v1/gadgets/" + url.PathEscape(created.Codename) + "/self-destruct"
	rec = f.do(t, http.MethodPost, path, f.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("self-destruct status = %d, body %s", rec.Code, rec.Body.String())
	}
	destroyed := decode[struct {
		Message          string     `json:"message"`
		ConfirmationCode string     `json:"confirmationCode"`
		Gadget           gadgetResp `json:"gadget"`
	}](t, rec)
	if destroyed.Gadget.Status != "Destroyed" {
		t.Errorf("Status = %q, want Destroyed", destroyed.Gadget.Status)
	}
	if !regexp.MustCompile(`^[0-9A-F]{6}$`).MatchString(destroyed.ConfirmationCode) {
		t.Errorf("ConfirmationCode = %q, want 6 uppercase hex chars", destroyed.ConfirmationCode)
	}
}

func TestGadgetFlow_DecommissionAndFilter(t *testing.T) {
	f := newFixture(t)

	first := decode[gadgetResp](t, f.do(t, http.MethodPost, "/api/v1/gadgets", f.adminToken, map[string]string{"name": "Watch"}))
	_ = decode[gadgetResp](t, f.do(t, http.MethodPost, "/api/v1/gadgets", f.adminToken, map[string]string{"name": "Pen"}))

	rec := f.do(t, http.MethodDelete, "/api/v1/gadgets/"+first.ID, f.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("decommission status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Second decommission is an invalid transition.
	rec = f.do(t, http.MethodDelete, "/api/v1/gadgets/"+first.ID, f.adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("repeat decommission status = %d, want 400", rec.Code)
	}

	list := decode[[]gadgetResp](t, f.do(t, http.MethodGet, "/api/v1/gadgets?status=Decommissioned", f.userToken, nil))
	if len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("filtered list = %+v, want only the decommissioned gadget", list)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/gadgets/"+uuid.NewString(), f.adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown gadget status = %d, want 404", rec.Code)
	}
}

func TestGadgetPatch(t *testing.T) {
	f := newFixture(t)

	g := decode[gadgetResp](t, f.do(t, http.MethodPost, "/api/v1/gadgets", f.adminToken, map[string]string{"name": "Watch"}))

	rec := f.do(t, http.MethodPatch, "/api/v1/gadgets/"+g.ID, f.adminToken, map[string]string{"name": "Exploding Watch"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	patched := decode[gadgetResp](t, rec)
	if patched.Name != "Exploding Watch" || patched.Status != "Available" {
		t.Errorf("patched = %+v", patched)
	}

	rec = f.do(t, http.MethodPatch, "/api/v1/gadgets/"+uuid.NewString(), f.adminToken, map[string]string{"name": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("patch unknown status = %d, want 404", rec.Code)
	}
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	f := newFixture(t)
	creds := map[string]string{"username": "new.agent", "password": "Str0ng!pass"}

	rec := f.do(t, http.MethodPost, "/api/v1/users/register", "", creds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/v1/users/register", "", creds)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/users/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	login := decode[struct {
		AccessToken string            `json:"accessToken"`
		User        models.PublicUser `json:"user"`
	}](t, rec)
	if login.User.Username != "new.agent" || login.User.Role != models.RoleUser {
		t.Errorf("login user = %+v", login.User)
	}
	if _, err := f.tm.Verify(login.AccessToken); err != nil {
		t.Errorf("login token rejected: %v", err)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "accessToken" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no accessToken cookie set on login")
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Errorf("cookie flags HttpOnly=%v Secure=%v, want both true", cookie.HttpOnly, cookie.Secure)
	}

	// An active session blocks register and login.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(mustJSON(t, creds)))
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Errorf("login with session status = %d, want 400", res.Code)
	}

	// Logout via the cookie session.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(cookie)
	res = httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Errorf("logout status = %d, body %s", res.Code, res.Body.String())
	}
	var cleared *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == "accessToken" {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("logout did not clear the cookie: %+v", cleared)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/users/logout", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("logout without session status = %d, want 401", rec.Code)
	}
}

func TestRegister_PasswordPolicyOverHTTP(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": "weak.agent", "password": "password",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("weak password status = %d, want 400", rec.Code)
	}
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gadgets", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: f.userToken})
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when the cookie holds a valid session", rec.Code)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
