package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:        "LedgerBook",
		AppEnv:         "development",
		Port:           "0",
		JWTSecret:      "test-secret",
		TokenIssuer:    "ledgerbook-test",
		AccessTokenTTL: time.Minute,
	}
	app := fiber.New()
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(payload))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func signupAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users", "", fiber.Map{
		"name": "Test", "email": email, "password": "user@123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/sessions", "", fiber.Map{
		"email": email, "password": "user@123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users", "", fiber.Map{
		"name": "Test", "email": "dup@test.com", "password": "user@123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/users", "", fiber.Map{
		"name": "Test", "email": "dup@test.com", "password": "user@123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionRejectsBadCredentials(t *testing.T) {
	app := setupTestApp(t)
	signupAndLogin(t, app, "login@test.com")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/sessions", "", fiber.Map{
		"email": "login@test.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/sessions", "", fiber.Map{
		"email": "missing@test.com", "password": "user@123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRequiresToken(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/profile", "any_token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := signupAndLogin(t, app, "profile@test.com")
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "profile@test.com", body["email"])
}

func TestDepositWithdrawBalanceFlow(t *testing.T) {
	app := setupTestApp(t)
	token := signupAndLogin(t, app, "flow@test.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/statements/deposit", token, fiber.Map{
		"amount": 100.00, "description": "first deposit",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "deposit", body["type"])
	assert.Equal(t, "100.00", body["amount"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["user_id"])

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/statements/withdraw", token, fiber.Map{
		"amount": 50.00, "description": "first withdrawal",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "withdraw", body["type"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/statements/balance", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "50.00", body["balance"])
	history, ok := body["statement"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 2)
}

func TestWithdrawOverdraftReturns400(t *testing.T) {
	app := setupTestApp(t)
	token := signupAndLogin(t, app, "poor@test.com")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/statements/withdraw", token, fiber.Map{
		"amount": 50.00, "description": "overdraft attempt",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/statements/balance", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.00", body["balance"])
	history, _ := body["statement"].([]any)
	assert.Empty(t, history)
}

func TestStatementLookupIsOwnerScoped(t *testing.T) {
	app := setupTestApp(t)
	ownerToken := signupAndLogin(t, app, "owner@test.com")
	otherToken := signupAndLogin(t, app, "other@test.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/statements/deposit", ownerToken, fiber.Map{
		"amount": 1000.96, "description": "deposit",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	statementID, _ := body["id"].(string)
	require.NotEmpty(t, statementID)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/statements/"+statementID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1000.96", body["amount"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/statements/"+statementID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/statements/%s", "non-existent-statement-id"), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidAmountRejected(t *testing.T) {
	app := setupTestApp(t)
	token := signupAndLogin(t, app, "amounts@test.com")

	for _, amount := range []any{0, -10, 1.005} {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/statements/deposit", token, fiber.Map{
			"amount": amount, "description": "bad amount",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "amount %v", amount)
	}
}
