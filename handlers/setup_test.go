package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxpay/taxpay/backend/go-services/internal/allocations"
	"github.com/taxpay/taxpay/backend/go-services/internal/auth"
	"github.com/taxpay/taxpay/backend/go-services/internal/credentials"
	"github.com/taxpay/taxpay/backend/go-services/internal/gateway"
	"github.com/taxpay/taxpay/backend/go-services/internal/receipts"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/internal/tokens"
	"github.com/taxpay/taxpay/backend/go-services/internal/users"
)

const testSecret = "handlers-test-secret-32-bytes-xxxx"

func init() { gin.SetMode(gin.TestMode) }

type fakeGateway struct {
	order *gateway.Order
	err   error
	calls int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	o := *f.order
	return &o, nil
}

type testEnv struct {
	router *gin.Engine
	store  *store.MemoryStore
	tokens *tokens.Service
}

// newTestEnv wires every service over a MemoryStore. gw may be nil (gateway not configured).
func newTestEnv(t *testing.T, gw gateway.Gateway) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	ts := tokens.NewService(testSecret, 0)
	usersSvc := users.NewService(users.NewStoreUserRepository(st), credentials.NewHasher(bcrypt.MinCost), ts)
	r := NewRouter(Deps{
		Store:       st,
		Users:       usersSvc,
		Allocations: allocations.NewService(st),
		Receipts:    receipts.NewService(st, gw),
		Gate:        auth.NewGate(ts, usersSvc),
	})
	return &testEnv{router: r, store: st, tokens: ts}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doRaw sends a bodiless request with the Authorization header exactly as given.
func (e *testEnv) doRaw(t *testing.T, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user and returns a valid access token for it.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": password, "name": "Test User", "pan": "ABCDE1234F",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func serveGet(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
