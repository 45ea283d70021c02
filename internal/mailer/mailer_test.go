package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendPasswordReset(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "no-reply@bank.test", "https://app.test/reset", zap.NewNop())
	require.NoError(t, c.SendPasswordReset(context.Background(), "ada@example.com", "tok en"))

	assert.Equal(t, "no-reply@bank.test", got.From)
	assert.Equal(t, "ada@example.com", got.To)
	assert.True(t, strings.HasSuffix(got.Text, "https://app.test/reset?token=tok+en"))
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "no-reply@bank.test", "https://app.test/reset", zap.NewNop())
	err := c.Send(context.Background(), Message{To: "x@example.com"})
	assert.Error(t, err)
}
