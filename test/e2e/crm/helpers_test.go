package crm_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpapi "github.com/carisma-crm/carisma/internal/crm/http"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/internal/crm/store/drivers/sqlite"
	"github.com/carisma-crm/carisma/pkg/jwtx"
	"github.com/carisma-crm/carisma/pkg/slogx"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests exercising the full HTTP surface against an in-process
 * server backed by an in-memory database. No network dependencies.
 */

const (
	ownerEmail    = "owner@apex.test"
	ownerPassword = "Owner123!pass"
)

// captureMailer records sent messages so tests can follow the invitation
// flow the way an invitee would, starting from the email.
type captureMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, htmlBody)
	return "captured", nil
}

// setupServer wires the full router over a fresh in-memory store and
// returns the test server plus the mailer capture.
func setupServer(t *testing.T) (*httptest.Server, *captureMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSigner([]byte("e2e-test-secret-0123456789abcdef"), "carisma-test", time.Hour)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{
		Service: "carisma-crm",
		Version: "test",
		Env:     "test",
		Level:   "error",
		Format:  "text",
	})

	mailer := &captureMailer{}

	router := httpapi.NewRouter(signer, "test", st, nil, logger)
	router.AccountService = &service.AccountService{Store: st, Signer: signer}
	router.InviteService = &service.InviteService{
		Store:      st,
		Mailer:     mailer,
		AppBaseURL: "https://crm.example",
	}
	router.UserService = &service.UserService{Store: st}
	router.LeadService = &service.LeadService{Store: st}
	router.VehicleService = &service.VehicleService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, mailer
}

// doJSON issues a request with an optional JSON body and bearer token, and
// decodes the JSON response into out when out is non-nil.
func doJSON(t *testing.T, method, url string, body any, token string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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

	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

// registerCompany signs up a dealership and returns the founding user's
// access token.
func registerCompany(t *testing.T, baseURL, plan string) string {
	t.Helper()

	status := doJSON(t, http.MethodPost, baseURL+"/v1/companies", map[string]any{
		"company_name":     "Apex Motors",
		"plan":             plan,
		"email":            ownerEmail,
		"first_name":       "Dana",
		"last_name":        "Webb",
		"password":         ownerPassword,
		"confirm_password": ownerPassword,
	}, "", nil)
	require.Equal(t, http.StatusCreated, status)

	return login(t, baseURL, ownerEmail, ownerPassword)
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	status := doJSON(t, http.MethodPost, baseURL+"/v1/login", map[string]any{
		"email":    email,
		"password": password,
	}, "", &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}
