package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)
	req.Host = "botdock.example"

	assert.True(t, checkOrigin(req), "non-browser clients carry no origin")

	req.Header.Set("Origin", "https://botdock.example")
	assert.True(t, checkOrigin(req), "same-host origins are allowed")

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, checkOrigin(req), "cross-origin requests are rejected by default")

	req.Header.Set("Origin", "http://[bad")
	assert.False(t, checkOrigin(req))
}

func TestCheckOrigin_Allowlist(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://dash.botdock.example, https://staging.botdock.example")

	req := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)
	req.Host = "botdock.example"

	req.Header.Set("Origin", "https://dash.botdock.example")
	assert.True(t, checkOrigin(req))

	req.Header.Set("Origin", "https://staging.botdock.example")
	assert.True(t, checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, checkOrigin(req))
}
