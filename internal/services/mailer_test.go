package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMailgunMailerSendsFormPost(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotForm = map[string]string{
			"from":    r.FormValue("from"),
			"to":      r.FormValue("to"),
			"subject": r.FormValue("subject"),
			"text":    r.FormValue("text"),
		}
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "api", user)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	cfg := testConfig()
	cfg.MailgunBaseURL = ts.URL
	cfg.MailgunDomain = "mg.hostify.example"
	cfg.MailgunKey = "key-test"
	cfg.MailFrom = "billing@hostify.example"

	mailer := NewMailgunMailer(cfg, zap.NewNop())
	err := mailer.Send(context.Background(), "customer@example.com", "Invoice due", "Pay up, kindly.")
	require.NoError(t, err)

	assert.Equal(t, "/mg.hostify.example/messages", gotPath)
	assert.Equal(t, "billing@hostify.example", gotForm["from"])
	assert.Equal(t, "customer@example.com", gotForm["to"])
	assert.Equal(t, "Invoice due", gotForm["subject"])
	assert.Equal(t, "Pay up, kindly.", gotForm["text"])
}

func TestMailgunMailerSurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)

	cfg := testConfig()
	cfg.MailgunBaseURL = ts.URL
	cfg.MailgunDomain = "mg.hostify.example"

	mailer := NewMailgunMailer(cfg, zap.NewNop())
	err := mailer.Send(context.Background(), "x@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
