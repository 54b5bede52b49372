package scrape

import (
	"strings"

	"boorukit/booru/model"
	"github.com/PuerkitoBio/goquery"
)

// SidebarTags extracts the tag sidebar shown next to search results.
// Returns an empty slice when the page has no sidebar at all.
func SidebarTags(doc *goquery.Document) []model.Tag {
	tags := []model.Tag{}

	sidebar := doc.Find("#tag-sidebar").First()
	if sidebar.Length() == 0 {
		return tags
	}

	sidebar.Find("li").Each(func(_ int, li *goquery.Selection) {
		if tag, ok := parseTagItem(li); ok {
			tags = append(tags, tag)
		}
	})

	return tags
}

func parseTagItem(li *goquery.Selection) (model.Tag, bool) {
	tagType := "general"
	for _, class := range strings.Fields(li.AttrOr("class", "")) {
		if strings.HasPrefix(class, "tag-type-") {
			tagType = strings.TrimPrefix(class, "tag-type-")
			break
		}
	}

	link := li.Find("a[href*='tags=']").First()
	if link.Length() == 0 {
		return model.Tag{}, false
	}

	tag := model.Tag{
		Name:  strings.TrimSpace(link.Text()),
		Count: digitsToInt(li.Find("span.tag-count").First().Text()),
		Type:  tagType,
	}

	return tag, true
}
