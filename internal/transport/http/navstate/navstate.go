// Package navstate carries navigation intents between a page that starts a
// transition and the page it lands on.
//
// The intent travels as base64url-encoded JSON, either in the nav_state cookie
// (set by the server when a flow step redirects) or in the X-Navigation-State
// header (sent by the dashboard SPA). Cookies are single-use.
package navstate

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tips-admin-api/internal/domain"
)

const (
	CookieName = "nav_state"
	HeaderName = "X-Navigation-State"

	cookieMaxAge = 300
)

// Encode serializes an intent. A nil or empty intent encodes to "".
func Encode(in domain.Intent) (string, error) {
	if len(in) == 0 {
		return "", nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses an encoded intent. Malformed input yields an empty intent.
// Non-string JSON values are kept only when truthy: true becomes "true",
// non-zero numbers are formatted, false/0/null are dropped.
func Decode(raw string) domain.Intent {
	out := domain.Intent{}
	if raw == "" {
		return out
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return out
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return out
	}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			if val != "" {
				out[k] = val
			}
		case bool:
			if val {
				out[k] = "true"
			}
		case float64:
			if val != 0 {
				out[k] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		}
	}
	return out
}

// Read returns the intent attached to r. The header wins over the cookie.
// hasCookie reports a nav_state cookie on the request, used or not; the caller
// must clear it either way.
func Read(r *http.Request) (in domain.Intent, hasCookie bool) {
	c, err := r.Cookie(CookieName)
	hasCookie = err == nil
	if h := r.Header.Get(HeaderName); h != "" {
		return Decode(h), hasCookie
	}
	if !hasCookie {
		return domain.Intent{}, false
	}
	return Decode(c.Value), true
}

// Attach sets the cookie for the next navigation. An empty intent clears it.
func Attach(w http.ResponseWriter, in domain.Intent, secure bool) (string, error) {
	enc, err := Encode(in)
	if err != nil {
		return "", err
	}
	if enc == "" {
		Clear(w, secure)
		return "", nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    enc,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return enc, nil
}

// Clear expires the cookie.
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
