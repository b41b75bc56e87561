// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/mock"
	"github.com/MKhiriev/biodigestor-api/internal/session"
	"github.com/MKhiriev/biodigestor-api/models"
)

// ─────────────────────────────────────────────
// Authentication gate
// ─────────────────────────────────────────────

func TestPipeline_NoCookie_InteractiveClientIsRedirected(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/clients/12345678?view=full", "", nil, acceptHTML)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?ReturnUrl=%2Fapi%2Fclients%2F12345678%3Fview%3Dfull", rec.Header().Get("Location"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestPipeline_NoCookie_ProgrammaticClientGets401(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/clients/12345678", "", nil, acceptJSON)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized\n", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestPipeline_XMLHttpRequestIsProgrammatic(t *testing.T) {
	env := newTestEnv(t, nil)

	req := newRequest(http.MethodGet, "/auth/me", "")
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := serve(env.router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPipeline_NoAcceptHeaderIsProgrammatic(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/auth/me", "", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPipeline_InvalidSessionsAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t, nil)

	past := session.NewStore(env.cfg.Session, env.codec, nil, session.WithClock(func() time.Time {
		return time.Now().Add(-3 * time.Hour)
	}))
	expired, _ := issueCookie(t, past, ownerAccount())

	revoked, principal := env.login(t, ownerAccount())
	require.NoError(t, env.sessions.Revoke(context.Background(), principal))

	tampered, _ := env.login(t, ownerAccount())
	tampered.Value += "x"

	cookies := map[string]*http.Cookie{
		"absent":    nil,
		"malformed": {Name: testCookie, Value: "not-a-session"},
		"tampered":  tampered,
		"expired":   expired,
		"revoked":   revoked,
		"empty":     {Name: testCookie, Value: ""},
	}

	for name, cookie := range cookies {
		t.Run(name, func(t *testing.T) {
			api := env.do(http.MethodGet, "/api/clients/12345678", "", cookie, acceptJSON)
			assert.Equal(t, http.StatusUnauthorized, api.Code)
			assert.Equal(t, "Unauthorized\n", api.Body.String())
			assert.Equal(t, "no-store", api.Header().Get("Cache-Control"))

			browser := env.do(http.MethodGet, "/api/clients/12345678", "", cookie, acceptHTML)
			assert.Equal(t, http.StatusFound, browser.Code)
			assert.Equal(t, "/auth/login?ReturnUrl=%2Fapi%2Fclients%2F12345678", browser.Header().Get("Location"))
		})
	}

	metrics := env.scrape(t)
	for _, reason := range []string{"absent", "malformed", "expired", "revoked"} {
		assert.Contains(t, metrics, `biodigestor_authorization_decisions_total{outcome="deny",reason="`+reason+`",stage="authentication"}`)
		assert.Contains(t, metrics, `biodigestor_authorization_decisions_total{outcome="redirect_to_login",reason="`+reason+`",stage="authentication"}`)
	}
}

func TestPipeline_RevocationStoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	revocations := mock.NewMockRevocationStore(ctrl)
	revocations.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, errors.New("redis: connection refused"))

	env := newTestEnv(t, revocations)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodGet, "/api/clients/12345678", "", cookie, acceptJSON)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"service_unavailable"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestPipeline_PublicRoutesSkipTheGate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.health.EXPECT().Check(gomock.Any()).Return(nil)

	rec := env.do(http.MethodGet, "/health", "", nil, acceptHTML)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ─────────────────────────────────────────────
// Ownership guard
// ─────────────────────────────────────────────

func TestPipeline_OwnerReadsOwnClient(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	env.clients.EXPECT().GetClient(gomock.Any(), ownerDNI).Return(models.Client{DNI: ownerDNI, FirstName: "Ana", LastName: "Gomez"}, nil)

	rec := env.do(http.MethodGet, "/api/clients/"+ownerDNI, "", cookie, acceptJSON)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dni":"12345678","first_name":"Ana","last_name":"Gomez"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"), "allowed responses pass through unchanged")
}

func TestPipeline_MismatchIsForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodGet, "/api/clients/"+otherDNI, "", cookie, acceptJSON)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	assert.Contains(t, env.scrape(t), `biodigestor_authorization_decisions_total{outcome="deny",reason="mismatch",stage="authorization"} 1`)
}

func TestPipeline_MismatchIsForbiddenForBrowsersToo(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodGet, "/api/clients/"+otherDNI, "", cookie, acceptHTML)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestPipeline_MissingReferenceIsForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodGet, "/api/clients", "", cookie, acceptJSON)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"missing_reference"}`, rec.Body.String())
}

func TestPipeline_ElevatedRoleBypassesOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, adminAccount())

	gomock.InOrder(
		env.clients.EXPECT().ListClients(gomock.Any()).Return([]models.Client{{DNI: ownerDNI}, {DNI: otherDNI}}, nil),
		env.clients.EXPECT().GetClient(gomock.Any(), otherDNI).Return(models.Client{DNI: otherDNI}, nil),
	)

	rec := env.do(http.MethodGet, "/api/clients", "", cookie, acceptJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"dni":"12345678","first_name":"","last_name":""},{"dni":"87654321","first_name":"","last_name":""}]`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/clients/"+otherDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPipeline_RouteWinsOverQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodGet, "/api/clients/"+otherDNI+"?dni="+ownerDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())

	env.clients.EXPECT().GetClient(gomock.Any(), ownerDNI).Return(models.Client{DNI: ownerDNI}, nil)
	rec = env.do(http.MethodGet, "/api/clients/"+ownerDNI+"?dni="+otherDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPipeline_QueryReference(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	env.clients.EXPECT().GetClient(gomock.Any(), ownerDNI).Return(models.Client{DNI: ownerDNI}, nil)
	rec := env.do(http.MethodGet, "/api/clients?dni="+ownerDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/clients?dni="+otherDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPipeline_BodyReferenceAndBodyIsRestored(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	want := models.Client{DNI: ownerDNI, FirstName: "Ana", LastName: "Gomez"}
	env.clients.EXPECT().CreateClient(gomock.Any(), want).Return(want, nil)

	rec := env.do(http.MethodPost, "/api/clients", `{"dni":"12345678","first_name":"Ana","last_name":"Gomez"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/clients/12345678", rec.Header().Get("Location"))

	rec = env.do(http.MethodPost, "/api/clients", `{"dni":"87654321","first_name":"Eve","last_name":"Doe"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/clients", `{"first_name":"Eve","last_name":"Doe"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"missing_reference"}`, rec.Body.String())
}

func TestPipeline_RouteWinsOverBodyOnUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	env.clients.EXPECT().
		UpdateClient(gomock.Any(), models.Client{DNI: ownerDNI, FirstName: "Ana", LastName: "Gomez"}).
		Return(models.Client{DNI: ownerDNI, FirstName: "Ana", LastName: "Gomez"}, nil)

	rec := env.do(http.MethodPut, "/api/clients/"+ownerDNI, `{"dni":"87654321","first_name":"Ana","last_name":"Gomez"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPut, "/api/clients/"+otherDNI, `{"dni":"12345678","first_name":"Ana","last_name":"Gomez"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPipeline_ConfiguredSourceOrder(t *testing.T) {
	env := newTestEnv(t, nil, func(cfg *config.StructuredConfig) {
		cfg.Session.DNISources = []string{"query", "route"}
	})
	cookie, _ := env.login(t, ownerAccount())

	// the query is consulted before the route
	rec := env.do(http.MethodGet, "/api/clients/"+ownerDNI+"?dni="+otherDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())
}

func TestPipeline_HandlerTargetIsConfined(t *testing.T) {
	env := newTestEnv(t, nil, func(cfg *config.StructuredConfig) {
		cfg.Session.DNISources = []string{"query", "route"}
	})
	cookie, _ := env.login(t, ownerAccount())

	// the guard passes on the query, the handler would read the route
	rec := env.do(http.MethodGet, "/api/clients/"+otherDNI+"?dni="+ownerDNI, "", cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	exposition := env.scrape(t)
	assert.Contains(t, exposition, `biodigestor_authorization_decisions_total{outcome="allow",reason="",stage="authorization"} 1`)
	assert.Contains(t, exposition, `biodigestor_authorization_decisions_total{outcome="deny",reason="mismatch",stage="handler"} 1`)
	assert.NotContains(t, exposition, `biodigestor_authorization_decisions_total{outcome="deny",reason="mismatch",stage="authorization"}`)
}

func TestPipeline_DuplicateBodyKeysAreConfined(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	rec := env.do(http.MethodPost, "/api/clients", `{"dni":"12345678","DNI":"87654321","first_name":"Eve","last_name":"Doe"}`, cookie, acceptJSON)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","reason":"mismatch"}`, rec.Body.String())
}

func TestPipeline_DecisionIsStableAcrossRepeats(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie, _ := env.login(t, ownerAccount())

	for i := 0; i < 3; i++ {
		rec := env.do(http.MethodGet, "/api/clients/"+otherDNI, "", cookie, acceptJSON)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
	assert.Contains(t, env.scrape(t), `biodigestor_authorization_decisions_total{outcome="deny",reason="mismatch",stage="authorization"} 3`)
}
