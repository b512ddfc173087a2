package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrimage/atlas-divisions/adapters/store"
	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/service"
)

const (
	goodToken  = "good-token"
	adminEmail = "admin@example.com"
)

// fakeVerifier accepts exactly one token value and rejects everything else.
type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, raw string) (*core.Identity, error) {
	if raw == goodToken {
		return &core.Identity{Email: adminEmail, Subject: "user-123"}, nil
	}
	return nil, core.ErrSignatureInvalid
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestRouter(t *testing.T, policy service.AccessPolicy) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(discardWriter{}, nil))
	memStore := store.NewMemoryStore()
	contact := service.NewContactService(
		memStore, nil, nil,
		[]string{"General Inquiry", "Emergency Service"},
		core.DefaultStatuses(),
		logger,
	)
	guard := service.NewCSRFGuard(service.DefaultCSRFTTL, service.DefaultCSRFSweepInterval)
	handlers := NewHandlers(contact, policy, guard, logger)

	return NewRouter(handlers, fakeVerifier{}, logger), memStore
}

func adminPolicy() service.AccessPolicy {
	return service.AccessPolicy{
		EnableAdminAuth:    true,
		EnableTokenAccess:  true,
		AllowedAdminEmails: []string{adminEmail},
	}
}

func doForm(router *gin.Engine, path string, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doGet(router *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicPages(t *testing.T) {
	router, _ := newTestRouter(t, adminPolicy())

	t.Run("home", func(t *testing.T) {
		rec := doGet(router, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Atlas Divisions")
	})

	t.Run("contact form lists service types", func(t *testing.T) {
		rec := doGet(router, "/contact", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Emergency Service")
	})

	t.Run("legacy contact path", func(t *testing.T) {
		rec := doGet(router, "/contact-form", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("healthz", func(t *testing.T) {
		rec := doGet(router, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})
}

func TestSubmit(t *testing.T) {
	router, memStore := newTestRouter(t, adminPolicy())

	t.Run("valid submission", func(t *testing.T) {
		rec := doForm(router, "/submit", url.Values{
			"name":         {"Alice"},
			"email":        {"alice@example.com"},
			"service_type": {"General Inquiry"},
			"message":      {"Please help"},
		}, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Thank you!")

		listed, err := memStore.ListAll(context.Background())
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "Alice", listed[0].Name)
		assert.Equal(t, core.StatusNew, listed[0].Status)
	})

	t.Run("validation failures aggregate into one message", func(t *testing.T) {
		rec := doForm(router, "/submit", url.Values{
			"email": {"not-an-email"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Name is required")
		assert.Contains(t, body, "Please enter a valid email address")
	})
}

func TestAdminAccess(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		router, _ := newTestRouter(t, adminPolicy())
		rec := doGet(router, "/admin", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Admin access required")
	})

	t.Run("rejected token is treated as anonymous", func(t *testing.T) {
		router, _ := newTestRouter(t, adminPolicy())
		rec := doGet(router, "/admin", map[string]string{AccessJWTHeader: "bogus"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unlisted identity gets 403 under allow-list policy", func(t *testing.T) {
		policy := service.AccessPolicy{
			EnableAdminAuth:    true,
			AllowedAdminEmails: []string{"someone-else@example.com"},
		}
		router, _ := newTestRouter(t, policy)
		rec := doGet(router, "/admin", map[string]string{AccessJWTHeader: goodToken})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email not in admin list")
	})

	t.Run("verified identity sees the panel", func(t *testing.T) {
		router, _ := newTestRouter(t, adminPolicy())
		rec := doGet(router, "/admin", map[string]string{AccessJWTHeader: goodToken})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Signed in as "+adminEmail)
	})

	t.Run("auth disabled admits everyone", func(t *testing.T) {
		router, _ := newTestRouter(t, service.AccessPolicy{EnableAdminAuth: false})
		rec := doGet(router, "/admin", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

var csrfTokenPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// panelCSRFToken loads the admin panel and extracts the anti-forgery token
// embedded in the status update forms.
func panelCSRFToken(t *testing.T, router *gin.Engine) string {
	t.Helper()

	rec := doGet(router, "/admin", map[string]string{AccessJWTHeader: goodToken})
	require.Equal(t, http.StatusOK, rec.Code)

	match := csrfTokenPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "admin panel should embed a csrf token")
	return match[1]
}

func seedViaForm(t *testing.T, router *gin.Engine, memStore *store.MemoryStore) string {
	t.Helper()

	rec := doForm(router, "/submit", url.Values{
		"name":         {"Alice"},
		"service_type": {"General Inquiry"},
		"message":      {"Please help"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	listed, err := memStore.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	return listed[0].ID
}

func TestUpdateStatusRoundTrip(t *testing.T) {
	router, memStore := newTestRouter(t, adminPolicy())
	id := seedViaForm(t, router, memStore)
	auth := map[string]string{AccessJWTHeader: goodToken}

	token := panelCSRFToken(t, router)

	rec := doForm(router, "/admin/update", url.Values{
		"id":         {id},
		"status":     {"resolved"},
		"csrf_token": {token},
	}, auth)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	listed, err := memStore.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.StatusResolved, listed[0].Status)

	t.Run("token cannot be replayed", func(t *testing.T) {
		rec := doForm(router, "/admin/update", url.Values{
			"id":         {id},
			"status":     {"in_progress"},
			"csrf_token": {token},
		}, auth)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestUpdateStatusRejections(t *testing.T) {
	router, memStore := newTestRouter(t, adminPolicy())
	id := seedViaForm(t, router, memStore)
	auth := map[string]string{AccessJWTHeader: goodToken}

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := doForm(router, "/admin/update", url.Values{
			"id": {id}, "status": {"resolved"}, "csrf_token": {"x"},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing id or status", func(t *testing.T) {
		rec := doForm(router, "/admin/update", url.Values{
			"csrf_token": {"x"},
		}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing ID or status")
	})

	t.Run("missing csrf token", func(t *testing.T) {
		rec := doForm(router, "/admin/update", url.Values{
			"id": {id}, "status": {"resolved"},
		}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing CSRF token")
	})

	t.Run("wrong csrf token", func(t *testing.T) {
		panelCSRFToken(t, router) // a token exists, but the caller sends another
		rec := doForm(router, "/admin/update", url.Values{
			"id": {id}, "status": {"resolved"}, "csrf_token": {"forged"},
		}, auth)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid CSRF token")
	})

	t.Run("invalid status value", func(t *testing.T) {
		token := panelCSRFToken(t, router)
		rec := doForm(router, "/admin/update", url.Values{
			"id": {id}, "status": {"archived"}, "csrf_token": {token},
		}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid status value")
	})

	t.Run("unknown submission id", func(t *testing.T) {
		token := panelCSRFToken(t, router)
		rec := doForm(router, "/admin/update", url.Values{
			"id": {"no-such-id"}, "status": {"resolved"}, "csrf_token": {token},
		}, auth)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
