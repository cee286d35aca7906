package navstate

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tips-admin-api/internal/domain"
)

func raw(json string) string { return base64.RawURLEncoding.EncodeToString([]byte(json)) }

func TestEncodeDecode(t *testing.T) {
	in := domain.Intent{"from": "signup", "phone": "+15550100", "email": "a@b.com"}
	enc, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, in, Decode(enc))

	enc, err = Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, enc)
}

func TestDecode_Truthiness(t *testing.T) {
	got := Decode(raw(`{"isDone":true,"skip":false,"n":0,"code":123456,"none":null,"empty":"","nested":{"a":1}}`))
	assert.Equal(t, domain.Intent{"isDone": "true", "code": "123456"}, got)
}

func TestDecode_Malformed(t *testing.T) {
	assert.Empty(t, Decode("%%%"))
	assert.Empty(t, Decode(raw(`[1,2]`)))
	assert.NotNil(t, Decode(""))
}

func TestRead_HeaderWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, raw(`{"from":"forgot"}`))
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw(`{"from":"signup"}`)})

	in, hasCookie := Read(req)
	assert.Equal(t, "forgot", in.Get("from"))
	assert.True(t, hasCookie)
}

func TestRead_HeaderOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, raw(`{"from":"forgot"}`))

	in, hasCookie := Read(req)
	assert.Equal(t, "forgot", in.Get("from"))
	assert.False(t, hasCookie)
}

func TestRead_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw(`{"type":"email"}`)})

	in, hasCookie := Read(req)
	assert.Equal(t, "email", in.Get("type"))
	assert.True(t, hasCookie)
}

func TestAttachAndClear(t *testing.T) {
	rr := httptest.NewRecorder()
	enc, err := Attach(rr, domain.Intent{"isDone": "true"}, true)
	require.NoError(t, err)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, enc, cookies[0].Value)
	assert.True(t, cookies[0].Secure)

	rr = httptest.NewRecorder()
	_, err = Attach(rr, nil, false)
	require.NoError(t, err)
	cookies = rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
