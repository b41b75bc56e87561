// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/mock"
	"github.com/MKhiriev/biodigestor-api/internal/service"
	"github.com/MKhiriev/biodigestor-api/internal/session"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/models"
)

const (
	testSignKey = "handler-test-sign-key-0123456789abcdef"
	testCookie  = "AuthCookie"

	ownerDNI = "12345678"
	otherDNI = "87654321"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json"
)

// testEnv is a fully wired router with mocked services and a real session
// store.
type testEnv struct {
	router   http.Handler
	cfg      *config.StructuredConfig
	codec    session.Codec
	sessions *session.Store

	auth    *mock.MockAuthService
	clients *mock.MockClientService
	appInfo *mock.MockAppInfoService
	health  *mock.MockHealthService
}

type envOption func(cfg *config.StructuredConfig)

func testConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		Session: config.Session{
			CookieName:    testCookie,
			SignKey:       testSignKey,
			Codec:         config.CodecJWT,
			Issuer:        "biodigestor-test",
			Duration:      time.Hour,
			SameSite:      config.SameSiteLax,
			LoginPath:     "/auth/login",
			ElevatedRoles: []string{"admin"},
		},
		Server: config.Server{
			HTTPAddress:    "127.0.0.1:0",
			AllowedOrigins: []string{"http://localhost:4200"},
			MetricsEnabled: true,
		},
	}
}

// newTestEnv builds the router. revocations may be nil for an in-memory
// revocation list.
func newTestEnv(t *testing.T, revocations session.Revocations, opts ...envOption) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	codec, err := session.NewCodec(cfg.Session)
	require.NoError(t, err)

	if revocations == nil {
		revocations = store.NewMemoryRevocationStore(time.Now)
	}
	sessions := session.NewStore(cfg.Session, codec, revocations)

	ctrl := gomock.NewController(t)
	env := &testEnv{
		cfg:      cfg,
		codec:    codec,
		sessions: sessions,
		auth:     mock.NewMockAuthService(ctrl),
		clients:  mock.NewMockClientService(ctrl),
		appInfo:  mock.NewMockAppInfoService(ctrl),
		health:   mock.NewMockHealthService(ctrl),
	}

	services := &service.Services{
		AuthService:    env.auth,
		ClientService:  env.clients,
		AppInfoService: env.appInfo,
		HealthService:  env.health,
	}

	h, err := NewHandler(services, sessions, cfg, metrics.NewRecorder(), logger.Nop())
	require.NoError(t, err)
	env.router = h.Init()

	return env
}

func ownerAccount() models.Account {
	return models.Account{AccountID: 7, Username: "ana", DNI: ownerDNI, Roles: []string{"user"}}
}

func adminAccount() models.Account {
	return models.Account{AccountID: 1, Username: "root", DNI: "00000001", Roles: []string{"admin"}}
}

// login issues a session for account and returns its cookie and principal.
func (e *testEnv) login(t *testing.T, account models.Account) (*http.Cookie, auth.Principal) {
	t.Helper()
	return issueCookie(t, e.sessions, account)
}

func issueCookie(t *testing.T, sessions *session.Store, account models.Account) (*http.Cookie, auth.Principal) {
	t.Helper()

	rec := httptest.NewRecorder()
	principal, err := sessions.Issue(rec, account)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0], principal
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// do serves one request. body may be empty; a non-empty body is sent as
// JSON.
func (e *testEnv) do(method, target, body string, cookie *http.Cookie, accept string) *httptest.ResponseRecorder {
	req := newRequest(method, target, body)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	return serve(e.router, req)
}

// scrape returns the Prometheus exposition served on /metrics.
func (e *testEnv) scrape(t *testing.T) string {
	t.Helper()
	rec := e.do(http.MethodGet, "/metrics", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
