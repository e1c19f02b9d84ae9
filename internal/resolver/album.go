package resolver

import (
	"context"
	"fmt"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// resolveAlbum needs two sequential upstream calls; a miss on either
// one makes the whole resolution "no data".
func (e *Engine) resolveAlbum(ctx context.Context, t preview.AlbumTarget, path string) (preview.Result, error) {
	userView, err := e.api.User(ctx, t.Username)
	if err != nil {
		return preview.Result{}, fmt.Errorf("fetch user %s: %w", t.Username, err)
	}
	if userView.User == nil {
		return preview.Result{}, fmt.Errorf("user %s has no body: %w", t.Username, ErrNoData)
	}
	albumView, err := e.api.Album(ctx, t.Username, t.AlbumID)
	if err != nil {
		return preview.Result{}, fmt.Errorf("fetch album %s/%s: %w", t.Username, t.AlbumID, err)
	}
	if albumView.Album == nil {
		return preview.Result{}, fmt.Errorf("album %s/%s has no body: %w", t.Username, t.AlbumID, ErrNoData)
	}

	username := userView.User.Username
	if username == "" {
		username = t.Username
	}
	albumTitle := albumView.Album.AlbumTitle

	image := ""
	if userView.User.UserIcon != "" {
		image = fmt.Sprintf(iconURLTemplate, userView.User.UserIcon)
	}

	return preview.NewResult(preview.Content{
		Title:       fmt.Sprintf("%s's %s album", username, albumTitle),
		Description: fmt.Sprintf("Check out %s's %s album on Furtrack", username, albumTitle),
		Image:       image,
		Path:        path,
		Card:        preview.CardSummary,
	}), nil
}
