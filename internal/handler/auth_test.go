package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/auth"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/handler"
)

const testSecret = "test-secret"

type stubCaller struct {
	calls   []string
	respond func(procedure string, args gateway.Args) (json.RawMessage, error)
}

func (s *stubCaller) Call(_ context.Context, procedure string, args gateway.Args) (json.RawMessage, error) {
	s.calls = append(s.calls, procedure)
	return s.respond(procedure, args)
}

func setupAuthRouter(gw gateway.Caller) *chi.Mux {
	h := handler.NewAuthHandler(gw, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func authUserJSON(t *testing.T, id, restaurantID uuid.UUID, email, password string) json.RawMessage {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return json.RawMessage(fmt.Sprintf(
		`{"id":%q,"restaurant_id":%q,"full_name":"Ana","email":%q,"role":"MANAGER","hashed_password":%q}`,
		id, restaurantID, email, hash))
}

func TestLogin_Success(t *testing.T) {
	userID := uuid.New()
	gw := &stubCaller{
		respond: func(procedure string, args gateway.Args) (json.RawMessage, error) {
			if procedure != "get_admin_user_by_email" {
				t.Fatalf("unexpected procedure %s", procedure)
			}
			if args["p_email"] != "ana@napoli.test" {
				t.Errorf("p_email: got %v", args["p_email"])
			}
			return authUserJSON(t, userID, testRestaurantID, "ana@napoli.test", "hunter22"), nil
		},
	}
	router := setupAuthRouter(gw)

	rr := doRequest(t, router, "POST", "/auth/login",
		map[string]string{"email": "ana@napoli.test", "password": "hunter22"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "ana@napoli.test" || resp.User.Role != "MANAGER" {
		t.Errorf("user: got %+v", resp.User)
	}

	claims, err := auth.ValidateToken(testSecret, resp.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != userID || claims.RestaurantID != testRestaurantID || claims.Role != auth.RoleManager {
		t.Errorf("claims: got %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	gw := &stubCaller{
		respond: func(_ string, _ gateway.Args) (json.RawMessage, error) {
			return authUserJSON(t, uuid.New(), testRestaurantID, "ana@napoli.test", "hunter22"), nil
		},
	}
	router := setupAuthRouter(gw)

	rr := doRequest(t, router, "POST", "/auth/login",
		map[string]string{"email": "ana@napoli.test", "password": "wrong"})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	gw := &stubCaller{
		respond: func(_ string, _ gateway.Args) (json.RawMessage, error) {
			return nil, &gateway.Error{Procedure: "get_admin_user_by_email", Kind: gateway.KindNotFound, Message: "no user"}
		},
	}
	router := setupAuthRouter(gw)

	rr := doRequest(t, router, "POST", "/auth/login",
		map[string]string{"email": "nobody@napoli.test", "password": "hunter22"})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
	resp := decodeErrorResponse(t, rr)
	if resp["error"] != "invalid credentials" {
		t.Errorf("error: got %q", resp["error"])
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := setupAuthRouter(&stubCaller{})

	rr := doRequest(t, router, "POST", "/auth/login", map[string]string{"email": "ana@napoli.test"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestRefresh_Success(t *testing.T) {
	userID := uuid.New()
	refreshToken, err := auth.GenerateRefreshToken(testSecret, userID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	gw := &stubCaller{
		respond: func(procedure string, args gateway.Args) (json.RawMessage, error) {
			if procedure != "get_admin_user_by_id" {
				t.Fatalf("unexpected procedure %s", procedure)
			}
			if args["p_user_id"] != userID.String() {
				t.Errorf("p_user_id: got %v", args["p_user_id"])
			}
			return authUserJSON(t, userID, testRestaurantID, "ana@napoli.test", "hunter22"), nil
		},
	}
	router := setupAuthRouter(gw)

	rr := doRequest(t, router, "POST", "/auth/refresh",
		map[string]string{"refresh_token": refreshToken})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	// An access token signed with the same secret must not pass as a
	// refresh token.
	accessToken, err := auth.GenerateToken(testSecret, uuid.New(), testRestaurantID, auth.RoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	router := setupAuthRouter(&stubCaller{})

	rr := doRequest(t, router, "POST", "/auth/refresh",
		map[string]string{"refresh_token": accessToken})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	router := setupAuthRouter(&stubCaller{})

	rr := doRequest(t, router, "POST", "/auth/refresh",
		map[string]string{"refresh_token": "not-a-jwt"})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
}
