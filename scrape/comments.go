package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"boorukit/booru/model"
	"github.com/PuerkitoBio/goquery"
)

var (
	commentIDPattern   = regexp.MustCompile(`^c(\d+)$`)
	commentTimePattern = regexp.MustCompile(`Posted on (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
)

// Comments extracts the comment section of a post view page. Returns an
// empty slice when the page carries no comment list.
func Comments(doc *goquery.Document) []model.Comment {
	comments := []model.Comment{}

	list := doc.Find("#comment-list").First()
	if list.Length() == 0 {
		return comments
	}

	list.Find("div[id^='c']").Each(func(_ int, div *goquery.Selection) {
		match := commentIDPattern.FindStringSubmatch(div.AttrOr("id", ""))
		if match == nil {
			return
		}

		id, _ := strconv.Atoi(match[1])
		comments = append(comments, parseComment(id, div))
	})

	return comments
}

func parseComment(id int, div *goquery.Selection) model.Comment {
	comment := model.Comment{ID: id}

	col1 := div.Find(".col1").First()
	if col1.Length() > 0 {
		comment.Username = strings.TrimSpace(col1.Find("a").First().Text())

		if match := commentTimePattern.FindStringSubmatch(col1.Text()); match != nil {
			comment.PostedAt = match[1]
		}

		comment.Score = atoiOr(col1.Find("a[id^='sc']").First().Text())
	}

	col2 := div.Find(".col2").First()
	if len(col2.Nodes) > 0 {
		var builder strings.Builder
		for child := col2.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
			flattenText(child, &builder)
		}
		comment.Text = strings.TrimSpace(builder.String())
	}

	return comment
}
