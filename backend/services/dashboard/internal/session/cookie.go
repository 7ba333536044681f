package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const idValue = "sid"

// CookieOptions configure the browser cookie.
type CookieOptions struct {
	Name   string
	MaxAge int
	Secure bool
}

// Cookies binds browsers to an opaque session id in a signed cookie.
type Cookies struct {
	store sessions.Store
	name  string
}

// NewCookies returns Cookies signed with hashKey.
func NewCookies(hashKey []byte, opts CookieOptions) *Cookies {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	name := opts.Name
	if name == "" {
		name = "evdash_session"
	}
	return &Cookies{store: store, name: name}
}

// ID returns the request's session id, issuing a new one if the cookie is missing or
// tampered with.
func (c *Cookies) ID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := c.store.Get(r, c.name)
	if err != nil && sess == nil {
		return "", err
	}
	if id, ok := sess.Values[idValue].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[idValue] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// Forget expires the cookie.
func (c *Cookies) Forget(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.store.Get(r, c.name)
	if sess == nil {
		if err == nil {
			err = errors.New("session: no cookie session")
		}
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Severity string
	Message  string
}

// AddFlash queues a notice for the next page the browser loads.
func (c *Cookies) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) error {
	sess, err := c.store.Get(r, c.name)
	if sess == nil {
		return err
	}
	sess.AddFlash(f.Severity + "|" + f.Message)
	return sess.Save(r, w)
}

// Flashes pops queued notices.
func (c *Cookies) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, _ := c.store.Get(r, c.name)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		severity, message, _ := strings.Cut(s, "|")
		out = append(out, Flash{Severity: severity, Message: message})
	}
	_ = sess.Save(r, w)
	return out
}
