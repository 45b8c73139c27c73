package html_parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RewriteFunc maps a remote image URL to a durable one. Returning ok=false
// leaves the original reference untouched (per-image failures are not fatal
// to the surrounding document).
type RewriteFunc func(src string) (durable string, ok bool)

// RewriteImageSources rewrites the src of every <img> in an HTML fragment
// through rewrite and returns the new fragment plus the durable URLs in
// document order. A fragment without images is returned unchanged.
func RewriteImageSources(fragment string, rewrite RewriteFunc) (string, []string, error) {
	if !strings.Contains(fragment, "<img") {
		return fragment, nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", nil, err
	}

	var durableURLs []string

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists || strings.TrimSpace(src) == "" {
			return
		}

		durable, ok := rewrite(src)
		if !ok {
			return
		}

		s.SetAttr("src", durable)
		durableURLs = append(durableURLs, durable)
	})

	// goquery wraps fragments in a full document; return the body's inner HTML.
	rewritten, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, err
	}

	return rewritten, durableURLs, nil
}

// ImageSources returns the src attribute of every <img> in an HTML fragment.
func ImageSources(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var sources []string

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, exists := s.Attr("src"); exists && strings.TrimSpace(src) != "" {
			sources = append(sources, src)
		}
	})

	return sources
}
