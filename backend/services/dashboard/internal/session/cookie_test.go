package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCookiesIssueAndReuseID(t *testing.T) {
	c := NewCookies([]byte("0123456789abcdef0123456789abcdef"), CookieOptions{MaxAge: 3600})

	rec := httptest.NewRecorder()
	id, err := c.ID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || id == "" {
		t.Fatalf("ID() = %q, %v", id, err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, err := c.ID(httptest.NewRecorder(), req)
	if err != nil || again != id {
		t.Errorf("second ID() = %q, %v; want %q", again, err, id)
	}
}

func TestCookiesRejectTampering(t *testing.T) {
	c := NewCookies([]byte("0123456789abcdef0123456789abcdef"), CookieOptions{Name: "s"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "s", Value: "forged"})

	id, err := c.ID(httptest.NewRecorder(), req)
	if err != nil || id == "" {
		t.Fatalf("ID() = %q, %v; want fresh id", id, err)
	}
}

func TestCookiesForget(t *testing.T) {
	c := NewCookies([]byte("0123456789abcdef0123456789abcdef"), CookieOptions{})
	rec := httptest.NewRecorder()
	if err := c.Forget(rec, httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatalf("Forget() error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want expired", cookies)
	}
}

func TestFlashesSurviveOneRedirect(t *testing.T) {
	c := NewCookies([]byte("0123456789abcdef0123456789abcdef"), CookieOptions{})

	rec := httptest.NewRecorder()
	if err := c.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/", nil), Flash{Severity: "success", Message: "Station deleted successfully"}); err != nil {
		t.Fatalf("AddFlash() error: %v", err)
	}
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	got := c.Flashes(rec, req)
	if len(got) != 1 || got[0].Severity != "success" || got[0].Message != "Station deleted successfully" {
		t.Fatalf("Flashes() = %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if again := c.Flashes(httptest.NewRecorder(), req); len(again) != 0 {
		t.Errorf("flashes should be consumed, got %+v", again)
	}
}
