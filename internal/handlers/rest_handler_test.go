package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"presenceHub/internal/hub"
	"presenceHub/internal/models"
	"presenceHub/internal/msgs"
)

type noopConn struct{}

func (noopConn) WriteJSON(v interface{}) error { return nil }
func (noopConn) Close() error                  { return nil }

func restRouter(rh *RestHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", rh.Healthz)
	router.GET("/users/online", rh.OnlineUsers)
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) models.Response {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %v: expected 200, got %d", path, w.Code)
	}
	var resp models.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("GET %v: unmarshal response: %v", path, err)
	}
	return resp
}

func TestHealthzReportsHealthy(t *testing.T) {
	router := restRouter(NewRestHandler(nil, hub.NewHub()))

	resp := doGet(t, router, "/healthz")
	if !resp.Success || resp.Message != msgs.MsgServerIsHealthy {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestOnlineUsersEndpoint(t *testing.T) {
	h := hub.NewHub()
	router := restRouter(NewRestHandler(nil, h))

	h.Register(7, noopConn{})
	h.Register(9, noopConn{})

	resp := doGet(t, router, "/users/online")
	if !resp.Success || resp.Message != msgs.MsgOperationSuccessful {
		t.Fatalf("unexpected response: %+v", resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %+v", resp.Data)
	}
	ids, ok := data["user_ids"].([]interface{})
	if !ok || len(ids) != 2 {
		t.Fatalf("expected 2 online users, got %+v", data["user_ids"])
	}
	seen := make(map[float64]bool)
	for _, id := range ids {
		seen[id.(float64)] = true
	}
	if !seen[7] || !seen[9] {
		t.Errorf("missing users in %+v", ids)
	}
}
