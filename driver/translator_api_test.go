package driver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-optimizer/config"
	"news-optimizer/domain"
)

func translatorClient(t *testing.T, serverURL string) *TranslatorAPIClient {
	t.Helper()

	return NewTranslatorAPIClient(&config.TranslatorConfig{
		Host:       serverURL,
		TargetLang: "TR",
		Timeout:    5 * time.Second,
	}, slog.New(slog.DiscardHandler))
}

func TestTranslatorAPIClient_Translate(t *testing.T) {
	t.Run("should send the auth key and target language and return the translation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/translate", r.URL.Path)
			assert.Equal(t, "DeepL-Auth-Key secret-key", r.Header.Get("Authorization"))

			var req translateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"hello world"}, req.Text)
			assert.Equal(t, "TR", req.TargetLang)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"translations":[{"text":"merhaba dünya"}]}`))
		}))
		defer server.Close()

		got, err := translatorClient(t, server.URL).Translate(context.Background(), "hello world", "secret-key")

		require.NoError(t, err)
		assert.Equal(t, "merhaba dünya", got)
	})

	t.Run("should classify 429 as a quota error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := translatorClient(t, server.URL).Translate(context.Background(), "text", "key")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("should classify 456 as a quota error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(456)
		}))
		defer server.Close()

		_, err := translatorClient(t, server.URL).Translate(context.Background(), "text", "key")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("should not classify other failures as quota errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad auth key", http.StatusForbidden)
		}))
		defer server.Close()

		_, err := translatorClient(t, server.URL).Translate(context.Background(), "text", "key")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("should reject a response without translations", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"translations":[]}`))
		}))
		defer server.Close()

		_, err := translatorClient(t, server.URL).Translate(context.Background(), "text", "key")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidProviderResponse)
	})
}
