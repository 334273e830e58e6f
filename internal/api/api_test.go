package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/api"
	"github.com/isquicha/desafio-softfocus/internal/auth"
	"github.com/isquicha/desafio-softfocus/internal/auth/password"
	"github.com/isquicha/desafio-softfocus/internal/auth/token"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/store"
)

const testSecret = "test-secret"

type testAPI struct {
	engine *gin.Engine
	deps   *api.Deps
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(context.Background(), store.Config{Driver: "sqlite", DSN: ":memory:"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate error: %v", err)
	}

	codec, err := token.NewCodec(testSecret)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}

	users := store.NewUserStore(db)
	deps := &api.Deps{
		Log:        logger.Nop(),
		Auth:       auth.NewService(users, password.New(password.Config{BcryptCost: 4}), codec, logger.Nop()),
		DB:         db,
		Users:      users,
		Produtores: store.NewProdutorStore(db),
		Lavouras:   store.NewLavouraStore(db),
		Perdas:     store.NewPerdaStore(db),
	}

	engine := gin.New()
	api.Register(engine, deps)
	return &testAPI{engine: engine, deps: deps}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.engine.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) register(t *testing.T, username, pass string) {
	t.Helper()
	rr := a.do(t, "POST", "/api/users", gin.H{"username": username, "password": pass})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, rr.Code, rr.Body.String())
	}
}

func (a *testAPI) login(t *testing.T, username, pass string) string {
	t.Helper()
	rr := a.do(t, "POST", "/api/user/token", gin.H{"username": username, "password": pass})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rr.Code, rr.Body.String())
	}
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.Data.AccessToken == "" {
		t.Fatalf("login returned no access_token: %s", rr.Body.String())
	}
	return body.Data.AccessToken
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %s: %v", rr.Body.String(), err)
	}
	return body.Data
}

func TestUserRegistration(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, "POST", "/api/users", gin.H{"username": "alice", "password": "s3cret", "name": "Alice"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeData(t, rr)
	if data["username"] != "alice" || data["name"] != "Alice" {
		t.Errorf("unexpected user payload: %v", data)
	}
	if _, ok := data["id"]; !ok {
		t.Error("response missing user id")
	}
	if _, ok := data["password"]; ok {
		t.Error("response must never include the password")
	}
}

func TestUserRegistrationDuplicate(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")

	rr := a.do(t, "POST", "/api/users", gin.H{"username": "alice", "password": "other"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Username alice is already registered") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestUserRegistrationMissingFields(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		body gin.H
		want string
	}{
		{"no username", gin.H{"password": "x"}, "Field 'username' must not be empty"},
		{"no password", gin.H{"username": "alice"}, "Field 'password' must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(t, "POST", "/api/users", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Errorf("expected %q in body %s", tc.want, rr.Body.String())
			}
		})
	}
}

func TestUserRegistrationOverlongPassword(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, "POST", "/api/users", gin.H{"username": "alice", "password": strings.Repeat("a", 80)})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Field 'password' must be at most 72 bytes") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestLoginFailureResponsesAreIndistinguishable(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")

	unknownUser := a.do(t, "POST", "/api/user/token", gin.H{"username": "nobody", "password": "s3cret"})
	wrongPassword := a.do(t, "POST", "/api/user/token", gin.H{"username": "alice", "password": "wrong"})

	if unknownUser.Code != http.StatusBadRequest || wrongPassword.Code != http.StatusBadRequest {
		t.Fatalf("expected 400/400, got %d/%d", unknownUser.Code, wrongPassword.Code)
	}
	// Byte-identical bodies: nothing tells an attacker which usernames exist.
	if unknownUser.Body.String() != wrongPassword.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknownUser.Body.String(), wrongPassword.Body.String())
	}
	if !strings.Contains(unknownUser.Body.String(), "Invalid username or password") {
		t.Errorf("unexpected body: %s", unknownUser.Body.String())
	}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	signed := a.login(t, "alice", "s3cret")

	claims, err := a.deps.Auth.Verify(signed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("claims username mismatch: %q", claims.Username)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	tok := a.login(t, "alice", "s3cret")

	// No token: 401, and the write must not happen.
	rr := a.do(t, "POST", "/api/produtores",
		gin.H{"nome": "João", "email": "joao@example.com", "cpf": "123456789"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "An access_token must be provided") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}

	rr = a.do(t, "GET", "/api/produtores?access_token="+tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("rejected write leaked into the store: %s", rr.Body.String())
	}
}

func TestProtectedRouteAcceptsTokenInBody(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	tok := a.login(t, "alice", "s3cret")

	// The token rides in the JSON body next to the resource fields; the
	// handler must still see the full payload.
	rr := a.do(t, "POST", "/api/produtores", gin.H{
		"access_token": tok,
		"nome":         "João",
		"email":        "joao@example.com",
		"cpf":          "123456789",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeData(t, rr)
	if data["cpf"] != "123456789" {
		t.Errorf("unexpected produtor payload: %v", data)
	}
}

func TestProtectedRouteTokenFailures(t *testing.T) {
	a := newTestAPI(t)

	expiredCodec, err := token.NewCodec(testSecret,
		token.WithClock(func() time.Time { return time.Now().Add(-2 * token.TokenValidity) }))
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	expired, err := expiredCodec.Encode("alice")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	foreignCodec, err := token.NewCodec("some-other-secret")
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	forged, err := foreignCodec.Encode("alice")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"expired", expired, http.StatusUnauthorized, "Expired access_token"},
		{"forged signature", forged, http.StatusForbidden, "Invalid access_token"},
		{"garbage", "not-a-token", http.StatusForbidden, "Invalid access_token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(t, "GET", "/api/produtores?access_token="+tc.token, nil)
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Errorf("expected %q in body %s", tc.wantBody, rr.Body.String())
			}
		})
	}
}

func TestProdutorLifecycle(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	tok := a.login(t, "alice", "s3cret")
	q := "?access_token=" + tok

	rr := a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "João", "email": "joao@example.com", "cpf": "123456789"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	id := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "GET", fmt.Sprintf("/api/produtores/%d%s", id, q), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if decodeData(t, rr)["nome"] != "João" {
		t.Errorf("unexpected produtor: %s", rr.Body.String())
	}

	rr = a.do(t, "PATCH", fmt.Sprintf("/api/produtores/%d%s", id, q), gin.H{"nome": "João Silva"})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeData(t, rr)
	if data["nome"] != "João Silva" || data["email"] != "joao@example.com" {
		t.Errorf("partial update went wrong: %v", data)
	}

	rr = a.do(t, "DELETE", fmt.Sprintf("/api/produtores/%d%s", id, q), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = a.do(t, "GET", fmt.Sprintf("/api/produtores/%d%s", id, q), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestProdutorValidation(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing nome", gin.H{"email": "a@example.com", "cpf": "123456789"}},
		{"bad email", gin.H{"nome": "A", "email": "not-an-email", "cpf": "123456789"}},
		{"short cpf", gin.H{"nome": "A", "email": "a@example.com", "cpf": "123"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(t, "POST", "/api/produtores"+q, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestProdutorDuplicateCPF(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	rr := a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "A", "email": "a@example.com", "cpf": "111111111"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "B", "email": "b@example.com", "cpf": "111111111"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "CPF 111111111 is already registered") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestProdutorUpdateDuplicateCPF(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	rr := a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "A", "email": "a@example.com", "cpf": "111111111"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "B", "email": "b@example.com", "cpf": "222222222"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	id := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "PATCH", fmt.Sprintf("/api/produtores/%d%s", id, q), gin.H{"cpf": "111111111"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "CPF 111111111 is already registered") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestLavouraLifecycle(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	// Zero is a legal coordinate, the equator exists.
	rr := a.do(t, "POST", "/api/lavouras"+q,
		gin.H{"latitude": 0.0, "longitude": -46.6, "tipo": "soja"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	id := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "PATCH", fmt.Sprintf("/api/lavouras/%d%s", id, q), gin.H{"tipo": "milho"})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeData(t, rr)
	if data["tipo"] != "milho" || data["longitude"].(float64) != -46.6 {
		t.Errorf("partial update went wrong: %v", data)
	}

	rr = a.do(t, "POST", "/api/lavouras"+q,
		gin.H{"latitude": 123.0, "longitude": 0.0, "tipo": "soja"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range latitude: expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestPerdaLifecycle(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	rr := a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "A", "email": "a@example.com", "cpf": "111111111"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create produtor: got %d: %s", rr.Code, rr.Body.String())
	}
	produtorID := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "POST", "/api/lavouras"+q,
		gin.H{"latitude": -23.5, "longitude": -46.6, "tipo": "soja"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create lavoura: got %d: %s", rr.Code, rr.Body.String())
	}
	lavouraID := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "POST", "/api/perdas"+q, gin.H{
		"data":              "2024-03-10",
		"evento":            store.EventoGeada,
		"produtor_rural_id": produtorID,
		"lavoura_id":        lavouraID,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create perda: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	perdaID := int(decodeData(t, rr)["id"].(float64))

	rr = a.do(t, "PATCH", fmt.Sprintf("/api/perdas/%d%s", perdaID, q),
		gin.H{"evento": store.EventoSeca})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch perda: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if int(decodeData(t, rr)["evento"].(float64)) != store.EventoSeca {
		t.Errorf("evento not updated: %s", rr.Body.String())
	}

	rr = a.do(t, "DELETE", fmt.Sprintf("/api/perdas/%d%s", perdaID, q), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete perda: expected 204, got %d", rr.Code)
	}
}

func TestPerdaRejectsBadReferencesAndEvents(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "alice", "s3cret")
	q := "?access_token=" + a.login(t, "alice", "s3cret")

	rr := a.do(t, "POST", "/api/produtores"+q,
		gin.H{"nome": "A", "email": "a@example.com", "cpf": "111111111"})
	produtorID := int(decodeData(t, rr)["id"].(float64))
	rr = a.do(t, "POST", "/api/lavouras"+q,
		gin.H{"latitude": -23.5, "longitude": -46.6, "tipo": "soja"})
	lavouraID := int(decodeData(t, rr)["id"].(float64))

	tests := []struct {
		name string
		body gin.H
		want string
	}{
		{
			"unknown produtor",
			gin.H{"data": "2024-03-10", "evento": 1, "produtor_rural_id": 999, "lavoura_id": lavouraID},
			"Produtor rural 999 does not exist",
		},
		{
			"unknown lavoura",
			gin.H{"data": "2024-03-10", "evento": 1, "produtor_rural_id": produtorID, "lavoura_id": 999},
			"Lavoura 999 does not exist",
		},
		{
			"evento out of range",
			gin.H{"data": "2024-03-10", "evento": 7, "produtor_rural_id": produtorID, "lavoura_id": lavouraID},
			"evento",
		},
		{
			"bad date",
			gin.H{"data": "10/03/2024", "evento": 1, "produtor_rural_id": produtorID, "lavoura_id": lavouraID},
			"YYYY-MM-DD",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(t, "POST", "/api/perdas"+q, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Errorf("expected %q in body %s", tc.want, rr.Body.String())
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}
