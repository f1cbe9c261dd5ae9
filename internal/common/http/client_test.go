package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/states":
			_, _ = w.Write([]byte(`["California","Texas"]`))
		case "/api/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"INVALID_QUERY_PARAMETER"}}`))
		case "/api/garbage":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	var states []string
	status, err := c.GetJSON(ctx, "/api/states", &states)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"California", "Texas"}, states)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status, err = c.GetJSON(ctx, "/api/bad", &body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY_PARAMETER", body.Error.Code)

	status, err = c.GetJSON(ctx, "/missing", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	_, err = c.GetJSON(ctx, "/api/garbage", &states)
	assert.Error(t, err)
}

func TestGetJSON_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	_, err := c.GetJSON(context.Background(), "/health", nil)
	assert.Error(t, err)
}
