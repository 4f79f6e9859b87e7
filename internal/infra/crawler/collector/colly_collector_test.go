package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="ifa-stipendien-detail"><button>Accept all</button></div>
</body></html>`

func newSession(t *testing.T) (types.Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	b, err := InitCollyBrowser(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	s, err := b.NewSession(context.Background())
	require.NoError(t, err)
	return s, srv
}

func TestCollySessionWaitFor(t *testing.T) {
	ctx := context.Background()
	s, srv := newSession(t)
	require.NoError(t, s.Navigate(ctx, srv.URL))

	assert.NoError(t, s.WaitFor(ctx, "#ifa-stipendien-detail", time.Second))
	assert.NoError(t, s.WaitFor(ctx, "//button[contains(text(), 'Accept')]", time.Second))

	err := s.WaitFor(ctx, "ul.resultlist", time.Second)
	assert.ErrorIs(t, err, types.ErrElementNotFound)

	html, err := s.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "ifa-stipendien-detail")
}

func TestCollySessionInteractionsUnsupported(t *testing.T) {
	ctx := context.Background()
	s, srv := newSession(t)
	require.NoError(t, s.Navigate(ctx, srv.URL))

	assert.ErrorIs(t, s.Click(ctx, "button"), types.ErrInteractionUnsupported)
	assert.ErrorIs(t, s.SelectOption(ctx, "select", "1"), types.ErrInteractionUnsupported)
	assert.ErrorIs(t, s.DispatchChange(ctx, "select"), types.ErrInteractionUnsupported)
}

func TestCollySessionHTMLBeforeNavigate(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.HTML(context.Background())
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     bool
	}{
		{"css hit", "div#ifa-stipendien-detail", true},
		{"css miss", "li.entry", false},
		{"xpath hit", "//button[contains(text(), 'Accept')]", true},
		{"xpath miss", "//button[contains(text(), 'Reject')]", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Contains(page, tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
