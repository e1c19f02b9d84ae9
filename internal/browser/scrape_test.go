package browser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

func tagValue(tags []preview.MetaTag, key string) string {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

func TestParsePreview_CollectsOpenGraphAndTwitterTags(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<title>Furtrack</title>
		<meta property="og:title" content="Fox (📸 @Jane)">
		<meta property="og:description" content="#nature">
		<meta property="og:image" content="https://orca2.furtrack.com/gallery/9/1234-abc.jpg">
		<meta name="twitter:title" content="Fox (📸 @Jane)">
		<meta name="twitter:card" content="summary_large_image">
		<meta name="twitter:image" content="https://orca2.furtrack.com/gallery/9/1234-abc.jpg">
		<meta name="viewport" content="width=device-width">
	</head><body></body></html>`

	res, err := parsePreview(html, "/p/1234")
	require.NoError(t, err)
	require.Equal(t, preview.StatusOK, res.Status)
	require.Equal(t, "https://furtrack.com/p/1234", res.URL)
	require.Equal(t, "Fox (📸 @Jane)", tagValue(res.Metadata, "og:title"))
	require.Equal(t, "#nature", tagValue(res.Metadata, "og:description"))
	require.Equal(t, "summary_large_image", tagValue(res.Twitter, "twitter:card"))
	require.Empty(t, tagValue(res.Metadata, "viewport"))
}

func TestParsePreview_FallsBackToDocumentTags(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<title>Jane's profile</title>
		<meta name="description" content="Check out Jane's gallery on Furtrack">
		<meta name="twitter:title" content="Jane's profile">
	</head><body></body></html>`

	res, err := parsePreview(html, "/user/jane")
	require.NoError(t, err)
	require.Equal(t, "Jane's profile", tagValue(res.Metadata, "og:title"))
	require.Equal(t, "Check out Jane's gallery on Furtrack", tagValue(res.Metadata, "og:description"))
}

func TestParsePreview_NoTitleIsAnError(t *testing.T) {
	t.Parallel()

	html := `<html><head><meta name="description" content="nothing here"></head><body></body></html>`

	_, err := parsePreview(html, "/p/404")
	require.Error(t, err)
}

func TestParsePreview_SkipsEmptyContent(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<meta property="og:title" content="Photo on Furtrack">
		<meta property="og:image" content="">
	</head><body></body></html>`

	res, err := parsePreview(html, "/p/7")
	require.NoError(t, err)
	require.Empty(t, tagValue(res.Metadata, "og:image"))
}
