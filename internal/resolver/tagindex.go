package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/blumlaut/fxfurtrack/internal/preview"
	"github.com/blumlaut/fxfurtrack/internal/upstream"
)

func (e *Engine) resolveTagIndex(ctx context.Context, t preview.TagIndexTarget, path string) (preview.Result, error) {
	view, err := e.api.Index(ctx, t.Expression)
	if err != nil {
		return preview.Result{}, fmt.Errorf("fetch index %s: %w", t.Expression, err)
	}
	display := displayName(view.Tag, t.Expression)

	// A tag page with zero posts is still a valid page; it just has no
	// representative image.
	image, width, height := "", "", ""
	if best := highestScored(view.Posts); best != nil {
		image = fmt.Sprintf(galleryURLTemplate, best.SubmitUserID, best.PostID, best.MetaFingerprint, best.MetaFiletype)
		width, height = dimension(best.MetaWidth), dimension(best.MetaHeight)
	}

	return preview.NewResult(preview.Content{
		Title:       fmt.Sprintf("Posts tagged #%s", display),
		Description: fmt.Sprintf("Check out posts tagged #%s on Furtrack", display),
		Image:       image,
		Path:        path,
		Card:        preview.CardSummaryLargeImage,
		Width:       width,
		Height:      height,
	}), nil
}

// displayName prefers upstream tag metadata; without it the literal
// expression segments stand in, stripped of any kind prefix.
func displayName(tag *upstream.IndexTag, expression string) string {
	if tag != nil && tag.TagDisplay != "" {
		return tag.TagDisplay
	}
	segs := strings.Split(expression, "+")
	for i, seg := range segs {
		segs[i] = seg[strings.LastIndex(seg, ":")+1:]
	}
	return strings.Join(segs, "+")
}

func highestScored(posts []upstream.Post) *upstream.Post {
	var best *upstream.Post
	for i := range posts {
		if best == nil || posts[i].PostScore > best.PostScore {
			best = &posts[i]
		}
	}
	return best
}
