package services

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"secretsanta/testutil"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func issueCookies(t *testing.T, m *SessionManager, grant *SessionGrant) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	if err := m.Issue(c, grant); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return w.Result().Cookies()
}

func contextWithCookies(cookies ...*http.Cookie) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, cookie := range cookies {
		c.Request.AddCookie(cookie)
	}
	return c
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestIssueSetsSessionCookies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := NewSessionManager(db, SessionModeLegacy, "secret", true)

	tests := []struct {
		name   string
		grant  SessionGrant
		maxAge int
	}{
		{"user", SessionGrant{UserID: 4}, int(UserSessionTTL.Seconds())},
		{"bootstrap", SessionGrant{UserID: 4, IsSuperAdmin: true, Bootstrap: true}, int(BootstrapSessionTTL.Seconds())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := issueCookies(t, m, &tt.grant)
			for _, name := range []string{SessionCookie, UserIDCookie} {
				cookie := findCookie(cookies, name)
				if cookie == nil {
					t.Fatalf("cookie %s not set", name)
				}
				if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
					t.Errorf("cookie %s has wrong attributes: %+v", name, cookie)
				}
				if cookie.MaxAge != tt.maxAge {
					t.Errorf("cookie %s: expected max age %d, got %d", name, tt.maxAge, cookie.MaxAge)
				}
			}
			if got := findCookie(cookies, UserIDCookie).Value; got != "4" {
				t.Errorf("expected user id 4, got %q", got)
			}
		})
	}
}

func TestCurrentUserLegacyMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "org", "secret1", false)
	m := NewSessionManager(db, SessionModeLegacy, "secret", false)
	cookies := issueCookies(t, m, &SessionGrant{UserID: user.ID})

	got, err := m.CurrentUser(contextWithCookies(cookies...))
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("expected user %d, got %+v (%v)", user.ID, got, err)
	}

	token := findCookie(cookies, SessionCookie)
	id := findCookie(cookies, UserIDCookie)
	missing := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{"no cookies", nil},
		{"token only", []*http.Cookie{token}},
		{"id only", []*http.Cookie{id}},
		{"bad id", []*http.Cookie{token, {Name: UserIDCookie, Value: "abc"}}},
		{"unknown user", []*http.Cookie{token, {Name: UserIDCookie, Value: "999"}}},
	}
	for _, tt := range missing {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CurrentUser(contextWithCookies(tt.cookies...))
			if err != nil || got != nil {
				t.Errorf("expected no user, got %+v (%v)", got, err)
			}
		})
	}
}

func TestLegacyModeTrustsAnyToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "org", "secret1", false)
	m := NewSessionManager(db, SessionModeLegacy, "secret", false)

	got, _ := m.CurrentUser(contextWithCookies(
		&http.Cookie{Name: SessionCookie, Value: "anything"},
		&http.Cookie{Name: UserIDCookie, Value: strconv.FormatUint(uint64(user.ID), 10)},
	))
	if got == nil || got.ID != user.ID {
		t.Errorf("legacy sessions only check presence, got %+v", got)
	}
}

func TestCurrentUserSignedMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "org", "secret1", false)
	other := testutil.CreateTestUser(t, db, "other", "secret1", false)
	m := NewSessionManager(db, SessionModeSigned, "secret", false)
	cookies := issueCookies(t, m, &SessionGrant{UserID: user.ID})

	got, err := m.CurrentUser(contextWithCookies(cookies...))
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("expected user %d, got %+v (%v)", user.ID, got, err)
	}

	token := findCookie(cookies, SessionCookie)
	otherID := &http.Cookie{Name: UserIDCookie, Value: strconv.FormatUint(uint64(other.ID), 10)}
	if got, _ := m.CurrentUser(contextWithCookies(token, otherID)); got != nil {
		t.Error("token bound to another user must be rejected")
	}

	forged := &http.Cookie{Name: SessionCookie, Value: "anything"}
	if got, _ := m.CurrentUser(contextWithCookies(forged, findCookie(cookies, UserIDCookie))); got != nil {
		t.Error("unsigned token must be rejected")
	}

	otherKey := NewSessionManager(db, SessionModeSigned, "another-secret", false)
	if got, _ := otherKey.CurrentUser(contextWithCookies(cookies...)); got != nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestDestroyExpiresCookies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := NewSessionManager(db, SessionModeLegacy, "secret", false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	m.Destroy(c)

	for _, name := range []string{SessionCookie, UserIDCookie} {
		cookie := findCookie(w.Result().Cookies(), name)
		if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("cookie %s not expired: %+v", name, cookie)
		}
	}
}
