// Package integration holds end-to-end tests that run against a live
// API instance. They are skipped unless EVENTO_API_URL is set, and
// expect EVENTO_STAFF_AUTH / EVENTO_USER_AUTH as email:password pairs
// for existing accounts.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"evento/internal/models"
)

type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client

	email    string
	password string
}

func newClientFromEnv(t *testing.T, authEnv string) *TestClient {
	t.Helper()

	baseURL := os.Getenv("EVENTO_API_URL")
	if baseURL == "" {
		t.Skip("EVENTO_API_URL not set; skipping integration tests")
	}

	auth := os.Getenv(authEnv)
	parts := strings.SplitN(auth, ":", 2)
	if len(parts) != 2 {
		t.Skipf("%s not set to email:password; skipping", authEnv)
	}

	return &TestClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		email:      parts[0],
		password:   parts[1],
	}
}

func newStaffClient(t *testing.T) *TestClient { return newClientFromEnv(t, "EVENTO_STAFF_AUTH") }
func newUserClient(t *testing.T) *TestClient  { return newClientFromEnv(t, "EVENTO_USER_AUTH") }

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.SetBasicAuth(c.email, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, wantStatus int, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", wantStatus, resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
}

func (c *TestClient) CreateEvent(t *testing.T, req *models.CreateEventRequest) *models.Event {
	resp := c.makeRequest(t, "POST", "/api/events", req)
	var event models.Event
	decodeBody(t, resp, http.StatusCreated, &event)
	return &event
}

func (c *TestClient) CreateTicketType(t *testing.T, eventID int64, req *models.CreateTicketTypeRequest) *models.TicketType {
	resp := c.makeRequest(t, "POST", "/api/events/"+strconv.FormatInt(eventID, 10)+"/ticket-types", req)
	var tt models.TicketType
	decodeBody(t, resp, http.StatusCreated, &tt)
	return &tt
}

func (c *TestClient) Purchase(t *testing.T, req *models.PurchaseRequest) *models.PurchaseResponse {
	resp := c.makeRequest(t, "POST", "/api/tickets", req)
	var out models.PurchaseResponse
	decodeBody(t, resp, http.StatusCreated, &out)
	return &out
}

func (c *TestClient) Pay(t *testing.T, req *models.PayRequest) *models.Payment {
	resp := c.makeRequest(t, "PATCH", "/api/tickets/pay", req)
	var payment models.Payment
	decodeBody(t, resp, http.StatusCreated, &payment)
	return &payment
}

func (c *TestClient) Verify(t *testing.T, req *models.VerifyRequest) *models.VerifyResponse {
	resp := c.makeRequest(t, "POST", "/api/verify", req)
	var out models.VerifyResponse
	decodeBody(t, resp, http.StatusOK, &out)
	return &out
}
