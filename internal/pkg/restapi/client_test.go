package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost"})
	assert.Error(t, err)

	c, err := New(Config{BaseURL: "http://localhost/", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost", c.baseURL)
}

func TestDoSetsHeaders(t *testing.T) {
	var got http.Header
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		//nolint:errcheck
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	c.SetToken("tok-123")

	resp, err := c.Do(context.Background(), http.MethodPost, "/things", map[string]string{"name": "x"})
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	assert.Equal(t, "secret", got.Get("X-Api-Key"))
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "x", gotBody["name"])
}

func TestDoOmitsBearerWhenCleared(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	c.SetToken("tok")
	c.SetToken("")

	_, err = c.Do(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestResponseErr(t *testing.T) {
	ok := &Response{StatusCode: 204}
	assert.NoError(t, ok.Err())

	withMessage := &Response{StatusCode: 400, Body: []byte(`{"message":"bad input"}`)}
	require.Error(t, withMessage.Err())
	assert.Equal(t, "bad input", withMessage.Err().Error())

	withError := &Response{StatusCode: 404, Body: []byte(`{"error":"not found"}`)}
	require.Error(t, withError.Err())
	assert.Equal(t, "not found", withError.Err().Error())

	opaque := &Response{StatusCode: 500, Body: []byte(`<html>`)}
	require.Error(t, opaque.Err())
	assert.Equal(t, "request failed", opaque.Err().Error())
}
