package app

import (
	"net/http/httptest"
	"testing"

	"go-arsip/internal/handler"

	"github.com/gorilla/handlers"
)

func newTestServer() *Server {
	return NewServer(
		&handler.FileHandler{},
		&handler.ActivityHandler{},
		handler.NewDashboardHandler(nil, nil),
		&handler.CategoryHandler{},
		&handler.UserHandler{},
	)
}

func TestCORSPreflightRequest(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("OPTIONS", "/api/files", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := httptest.NewRecorder()

	// Same middleware setup as in Run
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)
	cors(server.router).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}

	allowHeaders := rr.Header().Get("Access-Control-Allow-Headers")
	if allowHeaders == "" {
		t.Error("Access-Control-Allow-Headers should not be empty for OPTIONS request")
	}
}

func TestCORSWithActualRequest(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://example.com")

	rr := httptest.NewRecorder()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)
	cors(server.router).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}

	if rr.Code != 200 {
		t.Errorf("GET /ping status = %d, want 200", rr.Code)
	}
}
