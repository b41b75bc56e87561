// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/models"
)

// fakeRevocations is an in-memory revocation list with an injectable error.
type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
	lastCtx context.Context
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: make(map[string]time.Time)}
}

func (f *fakeRevocations) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[sessionID] = until
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCtx = ctx
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[sessionID]
	return ok, nil
}

func testSessionConfig() config.Session {
	return config.Session{
		CookieName: "AuthCookie",
		SignKey:    testSignKey,
		Issuer:     testIssuer,
		Duration:   time.Hour,
		SameSite:   config.SameSiteNone,
	}
}

type storeFixture struct {
	store       *Store
	codec       Codec
	revocations *fakeRevocations
	now         *time.Time
}

// newStoreFixture builds a Store whose clock is shared with its jwt codec
// and can be moved by the test.
func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	now := testNow
	clock := func() time.Time { return now }

	codec, err := newJWTCodec([]byte(testSignKey), testIssuer, clock)
	require.NoError(t, err)

	revocations := newFakeRevocations()
	store := NewStore(testSessionConfig(), codec, revocations,
		WithClock(clock),
		WithIDGenerator(func() string { return "session-1" }),
	)

	return &storeFixture{store: store, codec: codec, revocations: revocations, now: &now}
}

func testAccount() models.Account {
	return models.Account{AccountID: 42, Username: "ana", DNI: "12345678", Roles: []string{"user"}}
}

func issuedCookie(t *testing.T, store *Store, account models.Account) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := store.Issue(rec, account)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestStore_IssueAndResolve(t *testing.T) {
	f := newStoreFixture(t)

	rec := httptest.NewRecorder()
	issued, err := f.store.Issue(rec, testAccount())
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, "AuthCookie", cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	assert.Equal(t, "42", issued.IdentityID)
	assert.Equal(t, "session-1", issued.SessionID)
	assert.Equal(t, "12345678", issued.DNI)
	assert.True(t, issued.ExpiresAt.Equal(testNow.Add(time.Hour)))

	resolved, err := f.store.Resolve(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, issued.IdentityID, resolved.IdentityID)
	assert.Equal(t, issued.SessionID, resolved.SessionID)
	assert.Equal(t, issued.DNI, resolved.DNI)
	assert.Equal(t, issued.Roles(), resolved.Roles())
	assert.True(t, issued.IssuedAt.Equal(resolved.IssuedAt))
	assert.True(t, issued.ExpiresAt.Equal(resolved.ExpiresAt))
}

func TestStore_Issue_InvalidAccount(t *testing.T) {
	f := newStoreFixture(t)

	account := testAccount()
	account.DNI = "123"

	rec := httptest.NewRecorder()
	_, err := f.store.Issue(rec, account)
	require.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestStore_Resolve_Failures(t *testing.T) {
	f := newStoreFixture(t)
	valid := issuedCookie(t, f.store, testAccount()).Value

	badDNI, err := f.codec.Encode(newClaims("42", "s", testIssuer, "1234", nil, testNow, time.Hour))
	require.NoError(t, err)
	noSubject, err := f.codec.Encode(newClaims("", "s", testIssuer, "12345678", nil, testNow, time.Hour))
	require.NoError(t, err)
	noSession, err := f.codec.Encode(newClaims("42", "", testIssuer, "12345678", nil, testNow, time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		advance time.Duration
		wantErr error
	}{
		{name: "absent", value: "", wantErr: ErrAbsent},
		{name: "garbage", value: "garbage", wantErr: ErrMalformed},
		{name: "tampered", value: tamper(valid), wantErr: ErrMalformed},
		{name: "invalid dni claim", value: badDNI, wantErr: ErrMalformed},
		{name: "missing subject", value: noSubject, wantErr: ErrMalformed},
		{name: "missing session id", value: noSession, wantErr: ErrMalformed},
		{name: "expired", value: valid, advance: 2 * time.Hour, wantErr: ErrExpired},
		{name: "exactly at expiry", value: valid, advance: time.Hour, wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*f.now = testNow.Add(tt.advance)
			t.Cleanup(func() { *f.now = testNow })

			p, err := f.store.Resolve(context.Background(), tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, p.DNI)
		})
	}
}

// TestStore_Resolve_ExpiryCheckedByStore uses a codec that never expires
// anything, so only the Store's own clock can reject the value.
func TestStore_Resolve_ExpiryCheckedByStore(t *testing.T) {
	codec, err := newSecureCookieCodec("AuthCookie", []byte(testSignKey), []byte(testEncryptionKey), time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now().UTC().Truncate(time.Second)
	value, err := codec.Encode(testClaims(issuedAt))
	require.NoError(t, err)

	store := NewStore(testSessionConfig(), codec, nil, WithClock(fixedClock(issuedAt.Add(90*time.Minute))))
	_, err = store.Resolve(context.Background(), value)
	assert.ErrorIs(t, err, ErrExpired)

	store = NewStore(testSessionConfig(), codec, nil, WithClock(fixedClock(issuedAt.Add(time.Minute))))
	p, err := store.Resolve(context.Background(), value)
	require.NoError(t, err)
	assert.Equal(t, "12345678", p.DNI)
}

func TestStore_Resolve_IssuerMismatch(t *testing.T) {
	codec, err := newSecureCookieCodec("AuthCookie", []byte(testSignKey), []byte(testEncryptionKey), time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now().UTC().Truncate(time.Second)
	value, err := codec.Encode(newClaims("42", "s", "another-service", "12345678", nil, issuedAt, time.Hour))
	require.NoError(t, err)

	store := NewStore(testSessionConfig(), codec, nil)
	_, err = store.Resolve(context.Background(), value)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStore_RevokeThenResolve(t *testing.T) {
	f := newStoreFixture(t)
	value := issuedCookie(t, f.store, testAccount()).Value

	p, err := f.store.Resolve(context.Background(), value)
	require.NoError(t, err)

	require.NoError(t, f.store.Revoke(context.Background(), p))
	assert.True(t, f.revocations.revoked["session-1"].Equal(p.ExpiresAt))

	_, err = f.store.Resolve(context.Background(), value)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestStore_RevocationUnavailable(t *testing.T) {
	f := newStoreFixture(t)
	value := issuedCookie(t, f.store, testAccount()).Value
	f.revocations.err = errors.New("connection refused")

	_, err := f.store.Resolve(context.Background(), value)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = f.store.Revoke(context.Background(), testPrincipal(t))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStore_Resolve_PassesContext(t *testing.T) {
	type key struct{}
	f := newStoreFixture(t)
	value := issuedCookie(t, f.store, testAccount()).Value

	ctx := context.WithValue(context.Background(), key{}, "request")
	_, err := f.store.Resolve(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, "request", f.revocations.lastCtx.Value(key{}))
}

func TestStore_NilRevocations(t *testing.T) {
	f := newStoreFixture(t)
	store := NewStore(testSessionConfig(), f.codec, nil, WithClock(fixedClock(testNow)))

	value := issuedCookie(t, store, testAccount()).Value
	p, err := store.Resolve(context.Background(), value)
	require.NoError(t, err)
	assert.NoError(t, store.Revoke(context.Background(), p))
}

func TestStore_ResolveRequest(t *testing.T) {
	f := newStoreFixture(t)
	cookie := issuedCookie(t, f.store, testAccount())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := f.store.ResolveRequest(req)
	assert.ErrorIs(t, err, ErrAbsent)

	req.AddCookie(&http.Cookie{Name: "OtherCookie", Value: cookie.Value})
	_, err = f.store.ResolveRequest(req)
	assert.ErrorIs(t, err, ErrAbsent)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: f.store.CookieName(), Value: cookie.Value})
	p, err := f.store.ResolveRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "12345678", p.DNI)
}

func TestStore_Clear(t *testing.T) {
	f := newStoreFixture(t)

	rec := httptest.NewRecorder()
	f.store.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "AuthCookie", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
}

func TestStore_SameSiteFromConfig(t *testing.T) {
	f := newStoreFixture(t)
	cfg := testSessionConfig()
	cfg.SameSite = config.SameSiteStrict

	store := NewStore(cfg, f.codec, nil, WithClock(fixedClock(testNow)))
	cookie := issuedCookie(t, store, testAccount())
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func testPrincipal(t *testing.T) auth.Principal {
	t.Helper()
	claims := testClaims(testNow)
	principal, err := claims.principal()
	require.NoError(t, err)
	return principal
}
