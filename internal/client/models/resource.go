package models

// Resource is a single shared resource shown in listings.
//
// Tags keep the server order and may contain duplicates. Rank, Views and
// Likes are only populated by some endpoints (trending in particular).
type Resource struct {
	ID           string     `json:"id"`
	DateCreated  string     `json:"dateCreated"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Tags         []string   `json:"tags"`
	Description  string     `json:"description"`
	PreviewImage string     `json:"previewImage"`
	URL          string     `json:"url"`
	Rank         *int       `json:"rank,omitempty"`
	Views        *int       `json:"views,omitempty"`
	Likes        *int       `json:"likes,omitempty"`
	IsBookmarked bool       `json:"isBookmarked"`
	Activity     []Activity `json:"activity,omitempty"`
}

// Activity is one entry of a resource's activity feed.
type Activity struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	User string `json:"user"`
	Date string `json:"date"`
}

// ResourceDraft is the payload for creating a resource. The server fills in
// id, creation date, author and preview image.
type ResourceDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
}

// ResourcePatch is a partial update; nil fields are left untouched.
type ResourcePatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ResourcePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.URL == nil && p.Tags == nil
}
