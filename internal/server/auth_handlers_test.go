package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookswap/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func authTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/api/auth/register", s.Register)
	app.Post("/api/auth/login", s.Login)
	app.Post("/api/auth/logout", s.AuthRequired(), s.Logout)
	app.Get("/api/auth/session", s.AuthRequired(), s.GetSession)
	return app
}

func TestRegister(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := authTestApp(s)

	body := jsonBody(t, fiber.Map{
		"username": "ann",
		"email":    "ann@example.com",
		"password": "readmore1",
		"location": "Lisbon",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp.Body, &out)
	if out.Token == "" {
		t.Error("expected a token in the response")
	}
	if out.User.ID == 0 || out.User.Username != "ann" {
		t.Errorf("user = %+v, want persisted ann", out.User)
	}

	var stored models.User
	if err := db.Where("email = ?", "ann@example.com").First(&stored).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Password == "readmore1" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("readmore1")); err != nil {
		t.Errorf("stored password hash does not verify: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	app := authTestApp(s)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{"username": "ann"}},
		{"bad email", fiber.Map{"username": "ann", "email": "not-an-email", "password": "readmore1"}},
		{"short password", fiber.Map{"username": "ann", "email": "ann@example.com", "password": "ab1"}},
		{"digitless password", fiber.Map{"username": "ann", "email": "ann@example.com", "password": "readmorebooks"}},
		{"bad username", fiber.Map{"username": "a b!", "email": "ann@example.com", "password": "readmore1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := authTestApp(s)

	createTestUser(t, db, "ann")

	// Same email.
	body := jsonBody(t, fiber.Map{"username": "other", "email": "ann@example.com", "password": "readmore1"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate email: expected 409, got %d", resp.StatusCode)
	}

	// Same username.
	body = jsonBody(t, fiber.Map{"username": "ann", "email": "new@example.com", "password": "readmore1"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate username: expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginAndSession(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := authTestApp(s)

	hash, err := bcrypt.GenerateFromPassword([]byte("readmore1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username: "ann",
		Email:    "ann@example.com",
		Password: string(hash),
		Location: "Lisbon",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	body := jsonBody(t, fiber.Map{"username": "ann", "email": "ann@example.com", "password": "readmore1"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp.Body, &out)
	if out.Token == "" {
		t.Fatal("expected a token")
	}

	// The token authenticates protected routes.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", resp.StatusCode)
	}
	var sess struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decodeBody(t, resp.Body, &sess)
	if sess.ID != user.ID || sess.Username != "ann" || sess.Email != "ann@example.com" {
		t.Errorf("session = %+v, want ann's identity", sess)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := authTestApp(s)

	hash, _ := bcrypt.GenerateFromPassword([]byte("readmore1"), bcrypt.MinCost)
	db.Create(&models.User{Username: "ann", Email: "ann@example.com", Password: string(hash)})

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"wrong password", fiber.Map{"username": "ann", "email": "ann@example.com", "password": "wrong0000"}},
		{"unknown user", fiber.Map{"username": "ghost", "email": "ghost@example.com", "password": "readmore1"}},
		{"username email mismatch", fiber.Map{"username": "ann", "email": "other@example.com", "password": "readmore1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	app := authTestApp(s)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no credentials: expected 401, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := authTestApp(s)

	user := createTestUser(t, db, "ann")
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	expired := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value == "" {
			expired = true
		}
	}
	if !expired {
		t.Error("expected the session cookie to be expired")
	}
}
