package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const listingSample = `
<!doctype html>
<html>
<body>
<div id="content">
    <div id="tag-sidebar-wrap">
        <ul id="tag-sidebar">
            <li class="tag-type-artist tag"><a href="index.php?page=post&s=list&tags=some_artist">some_artist</a> <span class="tag-count">128</span></li>
            <li class="tag-type-copyright tag"><a href="index.php?page=post&s=list&tags=some_series">some_series</a> <span class="tag-count">1,204</span></li>
            <li class="tag"><a href="index.php?page=post&s=list&tags=blue_sky">blue_sky</a> <span class="tag-count">42</span></li>
            <li><a href="#">not a tag link</a></li>
        </ul>
    </div>
    <div class="content">
        <div id="post-list">
            <span class="thumb">
                <a id="p12345" href="index.php?page=post&s=view&id=12345"><img src="https://wimg.example.com/thumbnails/1234/thumbnail_abcdef.jpg" alt="blue_sky some_artist" title="blue_sky some_artist score:42 rating:safe"></a>
            </span>
            <span class="thumb">
                <a id="p67890" href="index.php?page=post&s=view&id=67890"><img class="preview webm-thumb" src="https://wimg.example.com/thumbnails/5678/thumbnail_fedcba.jpg" alt="animated" title="animated score:7 rating:questionable"></a>
            </span>
            <span class="thumb"></span>
        </div>
    </div>
</div>
</body>
</html>
`

func TestPosts(t *testing.T) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(listingSample))
	if err != nil {
		t.Fatalf("failed to parse sample document: %s", err)
	}

	posts := Posts(document, "https://rule34.xxx/index.php")
	if len(posts) != 2 {
		t.Fatalf("post count: %d, want 2", len(posts))
	}

	first := posts[0]
	if first.ID != 12345 {
		t.Errorf("post id: %d, want 12345", first.ID)
	}
	if first.Score != 42 {
		t.Errorf("post score: %d, want 42", first.Score)
	}
	if first.Rating != "safe" {
		t.Errorf("post rating: %q, want %q", first.Rating, "safe")
	}
	if len(first.Tags) != 2 || first.Tags[0] != "blue_sky" || first.Tags[1] != "some_artist" {
		t.Errorf("post tags: %v, want [blue_sky some_artist]", first.Tags)
	}
	if first.PreviewURL != "https://wimg.example.com/thumbnails/1234/thumbnail_abcdef.jpg" {
		t.Errorf("preview url: %q", first.PreviewURL)
	}
	if first.DetailURL != "https://rule34.xxx/index.php?page=post&s=view&id=12345" {
		t.Errorf("detail url: %q", first.DetailURL)
	}
	if first.IsVideo {
		t.Errorf("first post should not be marked as video")
	}

	if !posts[1].IsVideo {
		t.Errorf("second post should be marked as video")
	}
}

func TestSidebarTags(t *testing.T) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(listingSample))
	if err != nil {
		t.Fatalf("failed to parse sample document: %s", err)
	}

	tags := SidebarTags(document)
	if len(tags) != 3 {
		t.Fatalf("tag count: %d, want 3", len(tags))
	}

	if tags[0].Name != "some_artist" || tags[0].Type != "artist" || tags[0].Count != 128 {
		t.Errorf("first tag: %+v", tags[0])
	}
	if tags[1].Name != "some_series" || tags[1].Type != "copyright" || tags[1].Count != 1204 {
		t.Errorf("second tag: %+v", tags[1])
	}
	if tags[2].Type != "general" {
		t.Errorf("tag without type class should fall back to general, got %q", tags[2].Type)
	}
}

func TestSidebarTagsMissing(t *testing.T) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("failed to parse sample document: %s", err)
	}

	tags := SidebarTags(document)
	if len(tags) != 0 {
		t.Errorf("tag count: %d, want 0", len(tags))
	}
}
