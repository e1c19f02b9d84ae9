package upstream

// Upstream JSON shapes. The API is loosely typed; every container field
// is a pointer so absent or malformed payloads degrade instead of
// crashing resolution.

// PostView is the response of /view/post/{id}.
type PostView struct {
	Post *Post `json:"post"`
	Tags []Tag `json:"tags"`
}

// Post carries the fields needed to synthesize a gallery image URL and
// card dimensions. Zero dimensions mean upstream omitted them.
type Post struct {
	PostID          int64   `json:"postId"`
	SubmitUserID    int64   `json:"submitUserId"`
	MetaFingerprint string  `json:"metaFingerprint"`
	MetaFiletype    string  `json:"metaFiletype"`
	MetaWidth       int     `json:"metaWidth"`
	MetaHeight      int     `json:"metaHeight"`
	PostScore       float64 `json:"postScore"`
}

// Tag is a post tag. TagName uses prefix conventions: "1:" marks a
// character tag, "3:" a photographer tag, anything else (including an
// empty name) is a general tag.
type Tag struct {
	TagName string `json:"tagName"`
}

// UserView is the response of /get/u/{username}.
type UserView struct {
	User *User `json:"user"`
}

// User is the subset of profile data used for previews.
type User struct {
	Username string `json:"username"`
	UserIcon string `json:"userIcon"`
}

// AlbumView is the response of /view/album/{username}/{albumId}.
type AlbumView struct {
	Album *Album `json:"album"`
}

// Album is the subset of album data used for previews.
type Album struct {
	AlbumTitle string `json:"albumTitle"`
}

// IndexView is the response of /get/index/{tagExpression}.
type IndexView struct {
	Tag   *IndexTag `json:"tag"`
	Posts []Post    `json:"posts"`
}

// IndexTag is the tag metadata of an index listing.
type IndexTag struct {
	TagName    string `json:"tagName"`
	TagDisplay string `json:"tagDisplay"`
}
