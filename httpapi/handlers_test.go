package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	entitle "github.com/xraph/entitle"
	"github.com/xraph/entitle/httpapi"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/plan"
	"github.com/xraph/entitle/provider"
	"github.com/xraph/entitle/store/memory"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// stubProvider returns canned license responses.
type stubProvider struct {
	validation *license.Validation
	activated  *license.License
}

var _ provider.Client = (*stubProvider)(nil)

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CreateProduct(_ context.Context, p *provider.Product) (*provider.Product, error) {
	return p, nil
}

func (s *stubProvider) GetProduct(_ context.Context, _ string) (*provider.Product, error) {
	return nil, entitle.NewProductError("product_not_found", "no such product", 404)
}

func (s *stubProvider) ListProducts(_ context.Context) ([]*provider.Product, error) {
	return []*provider.Product{{ID: "prod_1", Name: "Pro Plan", Price: types.USD(2900)}}, nil
}

func (s *stubProvider) ActivateLicense(_ context.Context, _ string) (*license.License, error) {
	return s.activated, nil
}

func (s *stubProvider) DeactivateLicense(_ context.Context, _ string) (*license.License, error) {
	return s.activated, nil
}

func (s *stubProvider) ValidateLicense(_ context.Context, _ string) (*license.Validation, error) {
	return s.validation, nil
}

func (s *stubProvider) CancelSubscription(_ context.Context, _ string, _ bool) error {
	return nil
}

// headerAuth authenticates requests carrying X-User-ID.
func headerAuth(r *http.Request) (types.Identity, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return types.Identity{}, false
	}
	return types.Identity{
		UserID:    userID,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}, true
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	s := memory.New()
	p := &stubProvider{
		activated:  &license.License{ID: "lic_1", Status: "active"},
		validation: &license.Validation{Valid: true},
	}
	engine := entitle.New(s, entitle.WithProvider(p))
	handler := httpapi.NewHandler(engine, headerAuth)

	srv := httptest.NewServer(httpapi.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, s
}

func doRequest(t *testing.T, method, url, userID, body string) (int, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, env
}

func seedActive(t *testing.T, s *memory.Store, userID string) *subscription.Subscription {
	t.Helper()

	sub := &subscription.Subscription{
		Entity: types.NewEntity(),
		ID:     id.NewSubscriptionID(),
		UserID: userID,
		Plan:   plan.Pro,
		Status: subscription.StatusActive,
	}
	if err := s.CreateSubscription(context.Background(), sub); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return sub
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/healthz", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/subscription"},
		{http.MethodPost, "/subscription/cancel"},
		{http.MethodPost, "/licenses?action=activate"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, env := doRequest(t, tt.method, srv.URL+tt.path, "", "")
			if status != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", status)
			}
			if env.Error == nil || env.Error.Code != "UNAUTHENTICATED" {
				t.Errorf("expected UNAUTHENTICATED error, got %+v", env.Error)
			}
		})
	}
}

func TestGetSubscriptionNoneIsNull(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/subscription", "user_1", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}
	if string(env.Data) != "null" {
		t.Errorf("expected null data for a user without a subscription, got %s", env.Data)
	}
}

func TestGetSubscription(t *testing.T) {
	srv, s := newTestServer(t)
	seeded := seedActive(t, s, "user_1")

	status, env := doRequest(t, http.MethodGet, srv.URL+"/subscription", "user_1", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var got subscription.Subscription
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode subscription: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("expected subscription %s, got %s", seeded.ID, got.ID)
	}
}

func TestCancelSubscription(t *testing.T) {
	srv, s := newTestServer(t)
	seedActive(t, s, "user_1")

	status, env := doRequest(t, http.MethodPost, srv.URL+"/subscription/cancel", "user_1", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var result subscription.CancellationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.CancelAtPeriodEnd {
		t.Error("expected deferred cancel by default")
	}
	if result.Status != subscription.StatusActive {
		t.Errorf("expected status to stay active, got %q", result.Status)
	}
}

func TestCancelSubscriptionImmediately(t *testing.T) {
	srv, s := newTestServer(t)
	seedActive(t, s, "user_1")

	status, env := doRequest(t, http.MethodPost, srv.URL+"/subscription/cancel", "user_1", `{"immediately":true}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var result subscription.CancellationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Status != subscription.StatusCanceled {
		t.Errorf("expected status canceled, got %q", result.Status)
	}
}

func TestCancelSubscriptionNone(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/subscription/cancel", "user_1", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND error, got %+v", env.Error)
	}
}

func TestLicenseActivate(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/licenses?action=activate", "user_1", `{"key":"LICENSE-KEY-123456"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var lic license.License
	if err := json.Unmarshal(env.Data, &lic); err != nil {
		t.Fatalf("decode license: %v", err)
	}
	if lic.Status != "active" {
		t.Errorf("expected active license, got %q", lic.Status)
	}
}

func TestLicenseUnknownAction(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/licenses?action=refresh", "user_1", `{"key":"LICENSE-KEY-123456"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "INVALID_ACTION" {
		t.Errorf("expected INVALID_ACTION error, got %+v", env.Error)
	}
}

func TestLicenseMissingKey(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/licenses?action=activate", "user_1", `{}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", env.Error)
	}
}

func TestListProductsIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/products", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var products []*provider.Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Pro Plan" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestGetProductNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/products/prod_missing", "", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "product_not_found" {
		t.Errorf("expected provider error code to pass through, got %+v", env.Error)
	}
}
