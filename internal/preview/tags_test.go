package preview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenGraphTags_FullContent(t *testing.T) {
	t.Parallel()

	got := OpenGraphTags(Content{
		Title:       "Fox (📸 @Jane)",
		Description: "#nature",
		Image:       "https://orca2.furtrack.com/gallery/1/12345-abc.jpg",
		Path:        "/p/12345",
		Card:        CardSummaryLargeImage,
		Width:       "800",
		Height:      "600",
	})
	require.Equal(t, []MetaTag{
		{Key: "og:title", Value: "Fox (📸 @Jane)"},
		{Key: "og:description", Value: "#nature"},
		{Key: "og:image", Value: "https://orca2.furtrack.com/gallery/1/12345-abc.jpg"},
		{Key: "og:type", Value: "website"},
		{Key: "og:site_name", Value: "furtrack.com"},
		{Key: "og:url", Value: "https://furtrack.com/p/12345"},
		{Key: "og:image:width", Value: "800"},
		{Key: "og:image:height", Value: "600"},
	}, got)
}

func TestOpenGraphTags_OmitsEmptyImageAndDims(t *testing.T) {
	t.Parallel()

	got := OpenGraphTags(Content{Title: "Posts tagged #fox", Path: "/index/fox"})
	for _, tag := range got {
		require.NotEqual(t, "og:image", tag.Key)
		require.NotEqual(t, "og:image:width", tag.Key)
		require.NotEqual(t, "og:image:height", tag.Key)
	}
	require.Equal(t, MetaTag{Key: "og:title", Value: "Posts tagged #fox"}, got[0])
}

func TestTwitterTags_DefaultsToSummaryCard(t *testing.T) {
	t.Parallel()

	got := TwitterTags(Content{
		Title:       "alice's profile",
		Description: "Check out alice's photography gallery on Furtrack",
		Image:       "https://orca.furtrack.com/icons/55.jpg",
		Path:        "/user/alice",
	})
	require.Equal(t, []MetaTag{
		{Key: "twitter:title", Value: "alice's profile"},
		{Key: "twitter:card", Value: "summary"},
		{Key: "twitter:description", Value: "Check out alice's photography gallery on Furtrack"},
		{Key: "twitter:image", Value: "https://orca.furtrack.com/icons/55.jpg"},
		{Key: "twitter:site", Value: "@furtrack"},
	}, got)
}

func TestNewResult_OKInvariant(t *testing.T) {
	t.Parallel()

	res := NewResult(Content{Title: "Photo by Jane", Path: "/p/1", Card: CardSummaryLargeImage})
	require.True(t, res.OK())
	require.Equal(t, "https://furtrack.com/p/1", res.URL)
	require.NotEmpty(t, res.Metadata)
	require.Equal(t, "og:title", res.Metadata[0].Key)
}
