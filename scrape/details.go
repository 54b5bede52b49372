package scrape

import (
	"regexp"
	"strings"

	"boorukit/booru/model"
	"github.com/PuerkitoBio/goquery"
)

var (
	statIDPattern     = regexp.MustCompile(`Id:\s*(\d+)`)
	statPostedPattern = regexp.MustCompile(`Posted:\s*(.*?)\s*by`)
	imageJSPattern    = regexp.MustCompile(`image\s*=\s*(\{[^}]+\})`)
	jsWidthPattern    = regexp.MustCompile(`['"]?width['"]?\s*:\s*(\d+)`)
	jsHeightPattern   = regexp.MustCompile(`['"]?height['"]?\s*:\s*(\d+)`)
)

// Details extracts full post metadata from a view page. Raw HTML is taken
// besides the parsed document because image dimensions only show up in an
// inline script blob. Returns nil when the page carries no post id, which
// is what the board serves for deleted or unknown ids.
func Details(doc *goquery.Document, rawHTML string) *model.PostDetails {
	details := &model.PostDetails{Rating: "unknown"}

	details.Width, details.Height = parseImageScript(rawHTML)

	details.ImageURL = doc.Find("img#image").First().AttrOr("src", "")
	details.SampleURL = details.ImageURL
	if details.ImageURL == "" {
		// video posts have no #image element, fall back to the
		// original file link
		details.ImageURL = doc.Find("a[href*='images']").First().AttrOr("href", "")
	}

	doc.Find("#stats li").Each(func(_ int, li *goquery.Selection) {
		text := collapseSpace(li.Text())

		switch {
		case strings.Contains(text, "Id:"):
			details.ID = matchInt(statIDPattern, text)

		case strings.Contains(text, "Rating:"):
			details.Rating = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "Rating:", "")))

		case strings.Contains(text, "Score:"):
			details.Score = atoiOr(li.Find("span").First().Text())

		case strings.Contains(text, "Posted:"):
			if match := statPostedPattern.FindStringSubmatch(text); match != nil {
				details.PostedAt = strings.TrimSpace(match[1])
			}
			details.Uploader = strings.TrimSpace(li.Find("a").First().Text())

		case strings.Contains(text, "Source:"):
			details.SourceURL = li.Find("a").First().AttrOr("href", "")
		}
	})

	if details.ID == 0 {
		return nil
	}

	details.Tags = SidebarTags(doc)
	details.Comments = Comments(doc)

	return details
}

func parseImageScript(rawHTML string) (int, int) {
	match := imageJSPattern.FindStringSubmatch(rawHTML)
	if match == nil {
		return 0, 0
	}

	return matchInt(jsWidthPattern, match[1]), matchInt(jsHeightPattern, match[1])
}
