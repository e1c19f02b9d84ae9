package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blumlaut/fxfurtrack/internal/preview"
	"github.com/blumlaut/fxfurtrack/internal/upstream"
)

// Image URL templates of the upstream CDN.
const (
	galleryURLTemplate = "https://orca2.furtrack.com/gallery/%d/%d-%s.%s"
	thumbURLTemplate   = "https://orca2.furtrack.com/thumb/%d-%s.jpg"
	iconURLTemplate    = "https://orca.furtrack.com/icons/%s.jpg"
)

// Tag name prefixes of the upstream tagging convention.
const (
	characterTagPrefix    = "1:"
	photographerTagPrefix = "3:"
)

func (e *Engine) resolvePost(ctx context.Context, t preview.PostTarget) (preview.Result, error) {
	view, err := e.api.Post(ctx, t.ID)
	if err != nil {
		return preview.Result{}, fmt.Errorf("fetch post %s: %w", t.ID, err)
	}
	if view.Post == nil {
		return preview.Result{}, fmt.Errorf("post %s has no body: %w", t.ID, ErrNoData)
	}
	post := view.Post
	characters, photographers, general := partitionTags(view.Tags)
	video := isVideoFiletype(post.MetaFiletype)

	description := ""
	if len(general) > 0 {
		description = "#" + strings.Join(general, " #")
	}

	image := fmt.Sprintf(galleryURLTemplate, post.SubmitUserID, post.PostID, post.MetaFingerprint, post.MetaFiletype)
	if video {
		image = fmt.Sprintf(thumbURLTemplate, post.PostID, post.MetaFingerprint)
	}

	return preview.NewResult(preview.Content{
		Title:       postTitle(characters, photographers, video),
		Description: description,
		Image:       image,
		Path:        "/p/" + t.ID,
		Card:        preview.CardSummaryLargeImage,
		Width:       dimension(post.MetaWidth),
		Height:      dimension(post.MetaHeight),
	}), nil
}

// postTitle frames the title around the sole character when exactly one
// character tag exists; any ambiguous count falls back to
// photographer-only framing. Missing photographer credit degrades the
// title instead of failing the resolution.
func postTitle(characters, photographers []string, video bool) string {
	switch {
	case video && len(photographers) > 0:
		return "Video by " + photographers[0]
	case video:
		return "Video on Furtrack"
	case len(characters) == 1 && len(photographers) > 0:
		return capitalize(characters[0]) + " (📸 @" + photographers[0] + ")"
	case len(characters) == 1:
		return capitalize(characters[0])
	case len(photographers) > 0:
		return "Photo by " + photographers[0]
	}
	return "Photo on Furtrack"
}

// partitionTags splits upstream tags by prefix convention. Entries with
// absent or malformed names are general tags at best, never a crash.
func partitionTags(tags []upstream.Tag) (characters, photographers, general []string) {
	for _, tag := range tags {
		name := tag.TagName
		switch {
		case name == "":
		case strings.HasPrefix(name, characterTagPrefix):
			if v := name[len(characterTagPrefix):]; v != "" {
				characters = append(characters, v)
			}
		case strings.HasPrefix(name, photographerTagPrefix):
			if v := name[len(photographerTagPrefix):]; v != "" {
				photographers = append(photographers, v)
			}
		default:
			if v := name[strings.LastIndex(name, ":")+1:]; v != "" {
				general = append(general, v)
			}
		}
	}
	return characters, photographers, general
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func dimension(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func isVideoFiletype(filetype string) bool {
	switch strings.ToLower(filetype) {
	case "mp4", "webm", "mov":
		return true
	}
	return false
}
