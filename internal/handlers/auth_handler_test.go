package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
)

func setupAuthRouter(svc *mockUserService) *gin.Engine {
	router := gin.New()
	handler := NewAuthHandler(svc)
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	return router
}

func testUser() *models.User {
	user := &models.User{Username: "alice", Email: "alice@example.com"}
	user.ID = "11111111-1111-7111-8111-111111111111"
	return user
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success_returns_token_and_user", func(t *testing.T) {
		svc := &mockUserService{
			registerFn: func(username, email, password, confirm string) (*models.User, error) {
				return testUser(), nil
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/register", gin.H{
			"username":        "alice",
			"email":           "alice@example.com",
			"password":        "password123",
			"confirmPassword": "password123",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["message"] != "User registered successfully" {
			t.Errorf("unexpected message: %v", body["message"])
		}
		if body["token"] == nil || body["token"] == "" {
			t.Error("expected a token in the response")
		}
		user, ok := body["user"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected user object, got %v", body["user"])
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password hash must not appear in the response")
		}
	})

	t.Run("missing_fields_rejected_by_binding", func(t *testing.T) {
		svc := &mockUserService{
			registerFn: func(username, email, password, confirm string) (*models.User, error) {
				t.Fatal("service must not be called on binding failure")
				return nil, nil
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/register", gin.H{"username": "alice"})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("duplicate_user_conflict", func(t *testing.T) {
		svc := &mockUserService{
			registerFn: func(username, email, password, confirm string) (*models.User, error) {
				return nil, apperrors.ErrUserExists
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/register", gin.H{
			"username":        "alice",
			"email":           "alice@example.com",
			"password":        "password123",
			"confirmPassword": "password123",
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		body := parseJSON(t, w)
		if body["error"] == nil {
			t.Error("expected error field in response body")
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success_returns_token", func(t *testing.T) {
		svc := &mockUserService{
			loginFn: func(username, password string) (*models.User, error) {
				return testUser(), nil
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/login", gin.H{
			"username": "alice",
			"password": "password123",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["token"] == nil || body["token"] == "" {
			t.Error("expected a token in the response")
		}
	})

	t.Run("bad_credentials", func(t *testing.T) {
		svc := &mockUserService{
			loginFn: func(username, password string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/login", gin.H{
			"username": "alice",
			"password": "wrong",
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("missing_body", func(t *testing.T) {
		svc := &mockUserService{
			loginFn: func(username, password string) (*models.User, error) {
				t.Fatal("service must not be called on binding failure")
				return nil, nil
			},
		}
		router := setupAuthRouter(svc)

		w := doJSONRequest(router, http.MethodPost, "/auth/login", nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
