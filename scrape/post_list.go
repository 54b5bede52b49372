package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"boorukit/booru/model"
	"github.com/PuerkitoBio/goquery"
)

var (
	scorePattern  = regexp.MustCompile(`score:(\d+)`)
	ratingPattern = regexp.MustCompile(`rating:(\w+)`)
)

// Posts extracts all thumbnail entries from a listing page document.
// Thumbs without an anchor or an image are skipped.
func Posts(doc *goquery.Document, baseURL string) []model.Post {
	return postsIn(doc.Selection, baseURL)
}

func postsIn(container *goquery.Selection, baseURL string) []model.Post {
	var posts []model.Post

	container.Find("span.thumb").Each(func(_ int, thumb *goquery.Selection) {
		if post, ok := parseThumb(thumb, baseURL); ok {
			posts = append(posts, post)
		}
	})

	return posts
}

func parseThumb(thumb *goquery.Selection, baseURL string) (model.Post, bool) {
	anchor := thumb.Find("a").First()
	img := thumb.Find("a > img").First()
	if anchor.Length() == 0 || img.Length() == 0 {
		return model.Post{}, false
	}

	// anchor id looks like "p1234"
	id, _ := strconv.Atoi(strings.TrimLeft(anchor.AttrOr("id", ""), "p"))

	// the title attribute packs score and rating next to tag names
	title := img.AttrOr("title", "")

	post := model.Post{
		ID:         id,
		PreviewURL: img.AttrOr("src", ""),
		Tags:       strings.Fields(img.AttrOr("alt", "")),
		Score:      matchInt(scorePattern, title),
		Rating:     matchStrOr(ratingPattern, title, "unknown"),
		DetailURL:  resolveHref(anchor.AttrOr("href", ""), baseURL),
		IsVideo:    strings.Contains(img.AttrOr("class", ""), "webm-thumb"),
	}

	return post, true
}
