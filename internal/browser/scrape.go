package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// parsePreview pulls Open Graph and Twitter card tags out of a rendered page.
func parsePreview(html, path string) (preview.Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return preview.Result{}, fmt.Errorf("parse dom: %w", err)
	}

	var (
		meta    []preview.MetaTag
		twitter []preview.MetaTag
	)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok || content == "" {
			return
		}
		if prop, ok := sel.Attr("property"); ok && strings.HasPrefix(prop, "og:") {
			meta = append(meta, preview.MetaTag{Key: prop, Value: content})
			return
		}
		if name, ok := sel.Attr("name"); ok && strings.HasPrefix(name, "twitter:") {
			twitter = append(twitter, preview.MetaTag{Key: name, Value: content})
		}
	})

	if !hasTag(meta, "og:title") && !hasTag(twitter, "twitter:title") {
		return preview.Result{}, fmt.Errorf("%s: page carries no preview title", path)
	}

	// Fill in what the page left out from its plain document tags.
	if !hasTag(meta, "og:title") {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			meta = append(meta, preview.MetaTag{Key: "og:title", Value: title})
		}
	}
	if !hasTag(meta, "og:description") {
		if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
			meta = append(meta, preview.MetaTag{Key: "og:description", Value: desc})
		}
	}

	return preview.Result{
		URL:      preview.SiteBaseURL + path,
		Metadata: meta,
		Twitter:  twitter,
		Status:   preview.StatusOK,
	}, nil
}

func hasTag(tags []preview.MetaTag, key string) bool {
	for _, tag := range tags {
		if tag.Key == key {
			return true
		}
	}
	return false
}
