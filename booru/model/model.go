package model

// Post is a single thumbnail entry from a listing page grid.
type Post struct {
	ID         int
	PreviewURL string
	Tags       []string
	Score      int
	Rating     string
	DetailURL  string
	IsVideo    bool
}

// Tag is one entry of the tag sidebar shown next to search results.
type Tag struct {
	Name  string
	Count int
	Type  string
}

// Comment is a user comment listed under a post.
type Comment struct {
	ID       int
	Username string
	Text     string
	Score    int
	PostedAt string
}

// PostDetails carries full metadata scraped from a post view page.
type PostDetails struct {
	ID        int
	ImageURL  string
	SampleURL string
	Width     int
	Height    int
	Rating    string
	Score     int
	Uploader  string
	PostedAt  string
	SourceURL string
	Tags      []Tag
	Comments  []Comment
}

// UserProfile carries data scraped from an account profile page.
type UserProfile struct {
	Username         string
	ID               int
	JoinDate         string
	Level            string
	PostCount        int
	DeletedPostCount int
	FavoriteCount    int
	RecentUploads    []Post
	RecentFavorites  []Post
}
