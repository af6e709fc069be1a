package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatmates/marketplace/internal/repository"
)

type mockSitemapStore struct{ entries []repository.SitemapEntry }

func (m *mockSitemapStore) ActiveEntries(_ context.Context) ([]repository.SitemapEntry, error) {
	return m.entries, nil
}

func TestSitemap(t *testing.T) {
	updated := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	h := NewSitemapHandler("https://flatmates.example", &mockSitemapStore{
		entries: []repository.SitemapEntry{{ID: "l1", UpdatedAt: updated}},
	})

	c, rec := authedContext(t, http.MethodGet, "/sitemap.xml", "", "", "")
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, body, "<loc>https://flatmates.example/listings</loc>")
	assert.Contains(t, body, "<loc>https://flatmates.example/listings/l1</loc>")
	assert.Contains(t, body, "<lastmod>2026-02-10T08:30:00Z</lastmod>")
}
