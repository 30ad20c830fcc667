package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasanvivian/solepos/internal/db"
)

const testAdminSecret = "test-admin-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, Config{
		JWTSecret:   "test-jwt-secret",
		AdminSecret: testAdminSecret,
		Location:    time.UTC,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

// doJSON performs a request with an optional bearer token and JSON body, and
// decodes the JSON response into a generic map.
func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, ts *httptest.Server, email, role string) string {
	t.Helper()

	payload := map[string]any{
		"name":             "Test User",
		"email":            email,
		"phone_number":     fmt.Sprintf("07%08d", time.Now().UnixNano()%100000000),
		"password":         "password123",
		"confirm_password": "password123",
		"role":             role,
	}
	if role == "admin" {
		payload["admin_secret"] = testAdminSecret
	}

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status, "login: %v", body)

	token, ok := body["token"].(string)
	require.True(t, ok, "missing token in %v", body)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]any{
		"name":             "Alice",
		"email":            "Alice@Example.com",
		"phone_number":     "0700000001",
		"password":         "password123",
		"confirm_password": "password123",
		"role":             "admin",
		"admin_secret":     testAdminSecret,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Registered successfully as admin!", body["message"])

	// Email is normalized to lower case.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])

	status, body = doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, status)
	me := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", me["email"])
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	base := func() map[string]any {
		return map[string]any{
			"name":             "Bob",
			"email":            "bob@example.com",
			"phone_number":     "0700000002",
			"password":         "password123",
			"confirm_password": "password123",
		}
	}

	cases := []struct {
		name   string
		mutate func(map[string]any)
		status int
	}{
		{"weak password", func(m map[string]any) { m["password"], m["confirm_password"] = "short", "short" }, http.StatusBadRequest},
		{"no digit", func(m map[string]any) { m["password"], m["confirm_password"] = "passwords", "passwords" }, http.StatusBadRequest},
		{"mismatch", func(m map[string]any) { m["confirm_password"] = "different123" }, http.StatusBadRequest},
		{"missing field", func(m map[string]any) { m["email"] = "" }, http.StatusBadRequest},
		{"bad role", func(m map[string]any) { m["role"] = "superuser" }, http.StatusBadRequest},
		{"admin without secret", func(m map[string]any) { m["role"] = "admin" }, http.StatusForbidden},
		{"admin with wrong secret", func(m map[string]any) { m["role"], m["admin_secret"] = "admin", "nope" }, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := base()
			tc.mutate(payload)
			status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", payload)
			assert.Equal(t, tc.status, status)
		})
	}

	// Duplicate email.
	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", base())
	require.Equal(t, http.StatusCreated, status)
	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", base())
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "this email is already registered", body["error"])
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	status, _ := doJSON(t, http.MethodGet, ts.URL+"/api/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sales", "garbage-token", []any{})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStaffForbiddenOnAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "staff@example.com", "staff")

	status, _ := doJSON(t, http.MethodGet, ts.URL+"/api/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/settings/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSaleFlow(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	price, quantity := 20.0, 10
	status, item := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item A", "price": price, "quantity": quantity,
	})
	require.Equal(t, http.StatusCreated, status)
	itemID := int64(item["id"].(float64))

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []map[string]any{
		{"inventory_id": itemID, "quantity": 3},
	})
	require.Equal(t, http.StatusCreated, status, "sale: %v", body)
	assert.Equal(t, 60.0, body["total"])

	// Stock was decremented.
	status, list := doJSON(t, http.MethodGet, ts.URL+"/api/inventory", token, nil)
	require.Equal(t, http.StatusOK, status)
	items := list["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, 7.0, items[0].(map[string]any)["quantity"])

	// Overselling fails with a machine-readable kind and changes nothing.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []map[string]any{
		{"inventory_id": itemID, "quantity": 100},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient_stock", body["kind"])

	// Unknown item is a 404.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []map[string]any{
		{"inventory_id": 9999, "quantity": 1},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])

	// Empty sale is invalid input.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", body["kind"])

	status, list = doJSON(t, http.MethodGet, ts.URL+"/api/inventory", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7.0, list["items"].([]any)[0].(map[string]any)["quantity"], "failed sales must not consume stock")
}

func TestInventoryUpsertAndPatch(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item1", "price": 10, "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, status)

	// Same name merges into the existing row.
	status, merged := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item1", "price": 12, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 8.0, merged["quantity"])
	assert.Equal(t, 12.0, merged["price"])

	itemID := int64(merged["id"].(float64))
	status, patched := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/inventory/%d", ts.URL, itemID), token, map[string]any{
		"price": 15,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 15.0, patched["price"])
	assert.Equal(t, 8.0, patched["quantity"])

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item2", "price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing fields", body["error"])

	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/inventory/%d", ts.URL, itemID), token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/inventory/%d", ts.URL, itemID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInventoryAuditEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, _ := doJSON(t, http.MethodGet, ts.URL+"/api/settings/inventory-audit", token, nil)
	assert.Equal(t, http.StatusBadRequest, status, "date parameter is required")

	status, item := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item A", "price": 20, "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, status)
	itemID := int64(item["id"].(float64))

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []map[string]any{
		{"inventory_id": itemID, "quantity": 3},
	})
	require.Equal(t, http.StatusCreated, status)

	today := time.Now().UTC().Format("2006-01-02")
	status, body := doJSON(t, http.MethodGet, ts.URL+"/api/settings/inventory-audit?date="+today, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["total"]) // CREATE + SALE
	byAction := body["by_action"].(map[string]any)
	assert.Equal(t, 1.0, byAction["CREATE"])
	assert.Equal(t, 1.0, byAction["SALE"])

	status, body = doJSON(t, http.MethodGet, ts.URL+"/api/settings/inventory-audit?date="+today+"&action=sale", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["total"])
	logs := body["logs"].([]any)
	entry := logs[0].(map[string]any)
	assert.Equal(t, "Item A", entry["inventory_name"])
	assert.Equal(t, "Test User", entry["user_name"])

	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/settings/inventory-audit?date="+today+"&action=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/inventory", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// /auth/me probes return a null user instead of an error.
	status, body := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["user"])
}

func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, _ := doJSON(t, http.MethodPut, ts.URL+"/api/auth/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "newpassword1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPut, ts.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword1",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminDashboard(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, item := doJSON(t, http.MethodPost, ts.URL+"/api/inventory", token, map[string]any{
		"name": "Item A", "price": 20, "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, status)
	itemID := int64(item["id"].(float64))

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sales", token, []map[string]any{
		{"inventory_id": itemID, "quantity": 2},
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, http.MethodGet, ts.URL+"/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["total_sales_today"])
	assert.Equal(t, 40.0, summary["total_revenue"])
	assert.Equal(t, 1.0, summary["total_inventory"])

	chart := body["sales_chart"].([]any)
	assert.Len(t, chart, 7)
	recent := body["recent_sales"].([]any)
	assert.Len(t, recent, 1)
}

func TestExpensesEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, created := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", token, map[string]any{
		"description": "Rent",
		"amount":      1500,
	})
	require.Equal(t, http.StatusCreated, status)

	today := time.Now().UTC().Format("2006-01-02")
	status, body := doJSON(t, http.MethodGet, ts.URL+"/api/expenses/day?date="+today, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1500.0, body["total"])

	id := int64(created["id"].(float64))
	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/expenses/%d", ts.URL, id), token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestEmployeesEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "admin@example.com", "admin")

	status, created := doJSON(t, http.MethodPost, ts.URL+"/api/employees", token, map[string]any{
		"name": "Jane", "phone_number": "0711000000", "gender": "female",
	})
	require.Equal(t, http.StatusCreated, status)
	id := int64(created["id"].(float64))

	status, updated := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/employees/%d", ts.URL, id), token, map[string]any{
		"phone_number": "0722000000",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Jane", updated["name"])
	assert.Equal(t, "0722000000", updated["phone_number"])

	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/employees/%d", ts.URL, id), token, nil)
	assert.Equal(t, http.StatusOK, status)
}
