package preview

// CardType selects the Twitter card layout for a preview.
type CardType string

// Card layouts emitted by the resolvers.
const (
	CardSummary           CardType = "summary"
	CardSummaryLargeImage CardType = "summary_large_image"
)

// Content carries the synthesized fields a resolver produced for one
// page. Width/Height are decimal strings and empty when upstream gave no
// dimensions; Image may be empty for pages with no representative image.
type Content struct {
	Title       string
	Description string
	Image       string
	Path        string
	Card        CardType
	Width       string
	Height      string
}

// OpenGraphTags builds the Open Graph tag sequence for the given content.
// The order is fixed so cached results reproduce byte-for-byte.
func OpenGraphTags(c Content) []MetaTag {
	tags := []MetaTag{
		{Key: "og:title", Value: c.Title},
		{Key: "og:description", Value: c.Description},
	}
	if c.Image != "" {
		tags = append(tags, MetaTag{Key: "og:image", Value: c.Image})
	}
	tags = append(tags,
		MetaTag{Key: "og:type", Value: "website"},
		MetaTag{Key: "og:site_name", Value: SiteName},
		MetaTag{Key: "og:url", Value: SiteBaseURL + c.Path},
	)
	if c.Width != "" {
		tags = append(tags, MetaTag{Key: "og:image:width", Value: c.Width})
	}
	if c.Height != "" {
		tags = append(tags, MetaTag{Key: "og:image:height", Value: c.Height})
	}
	return tags
}

// TwitterTags builds the Twitter card tag sequence for the given content.
func TwitterTags(c Content) []MetaTag {
	card := c.Card
	if card == "" {
		card = CardSummary
	}
	tags := []MetaTag{
		{Key: "twitter:title", Value: c.Title},
		{Key: "twitter:card", Value: string(card)},
		{Key: "twitter:description", Value: c.Description},
	}
	if c.Image != "" {
		tags = append(tags, MetaTag{Key: "twitter:image", Value: c.Image})
	}
	tags = append(tags, MetaTag{Key: "twitter:site", Value: TwitterSite})
	return tags
}

// NewResult assembles an ok result from synthesized content.
func NewResult(c Content) Result {
	return Result{
		URL:      SiteBaseURL + c.Path,
		Metadata: OpenGraphTags(c),
		Twitter:  TwitterTags(c),
		Status:   StatusOK,
	}
}
