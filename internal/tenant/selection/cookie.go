// Package selection persists a session's chosen store in an HTTP cookie and
// exposes it to services through the request context.
package selection

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	id "storefront/pkg/domain"
)

// DefaultCookieName is used when no name is configured.
const DefaultCookieName = "current_store"

// DefaultMaxAge is one year.
const DefaultMaxAge = 365 * 24 * time.Hour

// Cookie reads and writes the store selection cookie.
type Cookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool

	// key signs cookie values when set. See SetSigningKey.
	key []byte
}

// NewCookie returns a Cookie with the default lifetime.
func NewCookie(name string, secure bool) *Cookie {
	if name == "" {
		name = DefaultCookieName
	}
	return &Cookie{Name: name, MaxAge: DefaultMaxAge, Secure: secure}
}

// SetSigningKey makes the cookie carry a keyed BLAKE2b tag so a client cannot
// point its selection at a store it never selected. Unsigned or mis-signed
// values then read as no selection.
func (c *Cookie) SetSigningKey(secret string) {
	sum := blake2b.Sum256([]byte(secret))
	c.key = sum[:]
}

// Read returns the selected store. A missing, malformed or badly signed cookie
// reads as no selection.
func (c *Cookie) Read(r *http.Request) (id.StoreID, bool) {
	raw, err := r.Cookie(c.Name)
	if err != nil {
		return id.StoreID{}, false
	}
	value := raw.Value
	if c.key != nil {
		var tag string
		var found bool
		value, tag, found = strings.Cut(value, ".")
		if !found || subtle.ConstantTimeCompare([]byte(tag), []byte(c.sign(value))) != 1 {
			return id.StoreID{}, false
		}
	}
	storeID, err := id.ParseStoreID(value)
	if err != nil {
		return id.StoreID{}, false
	}
	return storeID, true
}

// Write sets the selection cookie. It must run before the response header is
// written.
func (c *Cookie) Write(w http.ResponseWriter, storeID id.StoreID) {
	value := storeID.String()
	if c.key != nil {
		value += "." + c.sign(value)
	}
	http.SetCookie(w, c.cookie(value, int(c.MaxAge/time.Second)))
}

func (c *Cookie) sign(value string) string {
	// 32-byte keys are always accepted.
	mac, _ := blake2b.New256(c.key)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Clear expires the selection cookie.
func (c *Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *Cookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Sink writes a selection for a single response.
type Sink struct {
	cookie *Cookie
	w      http.ResponseWriter
}

// SinkFor binds the cookie channel to w.
func (c *Cookie) SinkFor(w http.ResponseWriter) *Sink {
	return &Sink{cookie: c, w: w}
}

func (s *Sink) PersistSelection(storeID id.StoreID) {
	s.cookie.Write(s.w, storeID)
}
