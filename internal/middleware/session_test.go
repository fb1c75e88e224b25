package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSession sends a request through the session middleware and returns
// the session id the handler observed plus the recorder.
func runSession(t *testing.T, mutate func(*http.Request)) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = SessionID(c)
		return c.NoContent(http.StatusOK)
	}, Session())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return seen, rec
}

func TestSession_HeaderWinsOverCookie(t *testing.T) {
	seen, rec := runSession(t, func(req *http.Request) {
		req.Header.Set(SessionHeader, "from-header")
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	})

	assert.Equal(t, "from-header", seen)
	// An explicit session never triggers a new cookie.
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_CookieUsedWhenNoHeader(t *testing.T) {
	seen, rec := runSession(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	})

	assert.Equal(t, "from-cookie", seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_MintsWhenAbsent(t *testing.T) {
	seen, rec := runSession(t, nil)

	// The minted id is a well-formed UUID.
	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookie, cookie.Name)
	assert.Equal(t, seen, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(sessionTTL.Seconds()), cookie.MaxAge)
}

func TestSession_MintedIDsAreUnique(t *testing.T) {
	first, _ := runSession(t, nil)
	second, _ := runSession(t, nil)
	assert.NotEqual(t, first, second)
}
