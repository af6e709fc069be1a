package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/repository"
)

// SitemapStore lists the ACTIVE listings referenced by the sitemap.
type SitemapStore interface {
	ActiveEntries(ctx context.Context) ([]repository.SitemapEntry, error)
}

type SitemapHandler struct {
	BaseURL string
	Store   SitemapStore
}

func NewSitemapHandler(baseURL string, s SitemapStore) *SitemapHandler {
	return &SitemapHandler{BaseURL: baseURL, Store: s}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// staticPages are the crawlable pages that exist regardless of content.
var staticPages = []string{"", "/listings", "/roommates"}

// Get serves the sitemap: the static pages plus one URL per ACTIVE listing
// with its last-modified time.
func (h *SitemapHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Store.ActiveEntries(ctx)
	if err != nil {
		return fail(c, err, "load sitemap failed")
	}

	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.BaseURL + p})
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     h.BaseURL + "/listings/" + e.ID,
			LastMod: e.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fail(c, err, "encode sitemap failed")
	}
	return c.Blob(http.StatusOK, "application/xml", append([]byte(xml.Header), out...))
}
