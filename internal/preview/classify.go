package preview

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidURL marks paths that fail the allow-list or classification.
var ErrInvalidURL = errors.New("invalid url")

// Target is the classified form of a request path. The variant set is
// closed; each resolver handles exactly one variant.
type Target interface {
	target()
}

// PostTarget identifies a single post page.
type PostTarget struct {
	ID string
}

// ProfileTarget identifies a user profile page. Section is one of
// "photography", "fursuiting", "favorites" or empty when the path carries
// no recognized section suffix.
type ProfileTarget struct {
	Username string
	Section  string
}

// AlbumTarget identifies a user album page.
type AlbumTarget struct {
	Username string
	AlbumID  string
}

// TagIndexTarget identifies a tag index page. A "+"-joined expression
// denotes the intersection of multiple tags.
type TagIndexTarget struct {
	Expression string
}

func (PostTarget) target()     {}
func (ProfileTarget) target()  {}
func (AlbumTarget) target()    {}
func (TagIndexTarget) target() {}

// staticPaths are asset paths browsers request unprompted; they never
// reach the resolution engine.
var staticPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/robots.txt":  {},
}

// NormalizePath rewrites upload paths to their canonical gallery path so
// aliasing variants of the same resource share one cache entry. The
// rewrite is idempotent.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "/uploads/", "/photography/")
}

// Supported reports whether the path belongs to one of the resource
// families this service previews. The root path and static assets are
// handled by the front door, never by the engine.
func Supported(path string) bool {
	if path == "" || path == "/" {
		return false
	}
	if _, ok := staticPaths[path]; ok {
		return false
	}
	switch firstSegment(path) {
	case "p", "user", "index":
		return true
	}
	return false
}

// Classify determines the resource kind for a request path and extracts
// its identifying fragments. Rules apply in a fixed precedence order;
// paths that fit no rule fail with ErrInvalidURL.
func Classify(path string) (Target, error) {
	if !Supported(path) {
		return nil, ErrInvalidURL
	}
	path = NormalizePath(path)
	segs := segments(path)
	if len(segs) == 0 {
		return nil, ErrInvalidURL
	}

	switch segs[0] {
	case "user":
		if len(segs) < 2 || segs[1] == "" {
			return nil, ErrInvalidURL
		}
		username := segs[1]
		if strings.HasPrefix(segs[len(segs)-1], "album") {
			return AlbumTarget{Username: username, AlbumID: albumID(segs[len(segs)-1])}, nil
		}
		return ProfileTarget{Username: username, Section: section(path)}, nil
	case "index":
		if !strings.HasPrefix(path, "/index/") {
			return nil, ErrInvalidURL
		}
		expr := strings.Trim(path[len("/index/"):], "/")
		if expr == "" {
			return nil, ErrInvalidURL
		}
		return TagIndexTarget{Expression: expr}, nil
	case "p":
		tail := segs[len(segs)-1]
		if _, err := strconv.ParseInt(tail, 10, 64); err == nil {
			return PostTarget{ID: tail}, nil
		}
		return nil, ErrInvalidURL
	}
	return nil, ErrInvalidURL
}

// segments splits a path and strips trailing empty segments so a
// trailing slash never changes the extracted tail.
func segments(path string) []string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func firstSegment(path string) string {
	segs := segments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// albumID extracts the id after the final "-" of the album segment.
func albumID(seg string) string {
	if i := strings.LastIndex(seg, "-"); i >= 0 {
		return seg[i+1:]
	}
	return seg
}

func section(path string) string {
	switch {
	case strings.Contains(path, "photography"):
		return "photography"
	case strings.Contains(path, "fursuiting"):
		return "fursuiting"
	case strings.Contains(path, "likes"):
		return "favorites"
	}
	return ""
}
