package scrape

import (
	"regexp"
	"strings"

	"boorukit/booru/model"
	"github.com/PuerkitoBio/goquery"
)

var profileUserIDPattern = regexp.MustCompile(`id=(\d+)`)

// Profile extracts an account profile page. Returns nil when the page has
// no profile heading, which is what the board serves for unknown names.
func Profile(doc *goquery.Document, baseURL string) *model.UserProfile {
	username := strings.TrimSpace(doc.Find("#content > h2").First().Text())
	if username == "" {
		return nil
	}

	profile := &model.UserProfile{Username: username}

	// the favorites link is the only place the numeric user id shows up
	if href, ok := doc.Find("a[href*='page=favorites']").First().Attr("href"); ok {
		profile.ID = matchInt(profileUserIDPattern, href)
	}

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}

		label := strings.ToLower(strings.TrimSpace(tds.Eq(0).Text()))
		value := tds.Eq(1)

		// "deleted" has to be checked before "posts", the deleted
		// counter row label contains both words
		switch {
		case strings.Contains(label, "join date"):
			profile.JoinDate = strings.TrimSpace(value.Text())

		case strings.Contains(label, "level"):
			profile.Level = strings.TrimSpace(value.Text())

		case strings.Contains(label, "deleted"):
			profile.DeletedPostCount = digitsToInt(value.Text())

		case strings.Contains(label, "posts"):
			profile.PostCount = digitsToInt(value.Find("a").First().Text())

		case strings.Contains(label, "favorites"):
			profile.FavoriteCount = digitsToInt(value.Find("a").First().Text())
		}
	})

	lists := doc.Find(".image-list")
	if lists.Length() >= 1 {
		profile.RecentFavorites = postsIn(lists.Eq(0), baseURL)
	}
	if lists.Length() >= 2 {
		profile.RecentUploads = postsIn(lists.Eq(1), baseURL)
	}

	return profile
}
