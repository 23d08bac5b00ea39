package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTranslatorCachesAnswers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req translateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "da", req.Source)
		assert.Equal(t, "en", req.Target)
		assert.Equal(t, "secret", req.APIKey)

		answers := map[string]string{"Lejlighed": "Apartment", "Stuen": "Ground floor"}
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: answers[req.Q]})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, "secret", 5*time.Second, quietLogger())
	ctx := context.Background()

	out, err := tr.Translate(ctx, "Lejlighed", "da", "en")
	require.NoError(t, err)
	assert.Equal(t, "Apartment", out)

	out, err = tr.Translate(ctx, "Lejlighed", "da", "en")
	require.NoError(t, err)
	assert.Equal(t, "Apartment", out)
	assert.Equal(t, 1, calls)

	out, err = tr.Translate(ctx, "Stuen", "da", "en")
	require.NoError(t, err)
	assert.Equal(t, "Ground floor", out)
	assert.Equal(t, 2, calls)
}

func TestHTTPTranslatorSkipsBlankText(t *testing.T) {
	tr := NewHTTPTranslator("http://127.0.0.1:1", "", time.Second, quietLogger())

	out, err := tr.Translate(context.Background(), "  ", "da", "en")
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
}

func TestHTTPTranslatorServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(translateResponse{Error: "slow down"})
	}))
	defer srv.Close()

	_, err := NewHTTPTranslator(srv.URL, "", 5*time.Second, quietLogger()).Translate(context.Background(), "Hej", "da", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "slow down")
}

func TestNoopTranslator(t *testing.T) {
	out, err := NoopTranslator{}.Translate(context.Background(), "Ubegrænset", "da", "en")
	require.NoError(t, err)
	assert.Equal(t, "Ubegrænset", out)
}
