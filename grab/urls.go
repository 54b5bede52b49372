package grab

import (
	"path"
	"strings"

	urlmod "net/url"
)

// candidateFileURLs derives possible original and sample file URLs from a
// thumbnail URL. Original files come first, they are better on quality.
func candidateFileURLs(thumbnailURL string) ([]string, error) {
	u, err := urlmod.Parse(thumbnailURL)
	if err != nil {
		return nil, err
	}

	// thumbnail URLs are absolute, first element of segments is an
	// empty string
	segments := strings.Split(u.Path, "/")
	if len(segments) <= 2 {
		return nil, nil
	}

	baseURLList := []string{
		rewriteThumbnailPath(u, segments, "images", ""),
		rewriteThumbnailPath(u, segments, "samples", "sample_"),
	}

	result := []string{}
	for _, baseURL := range baseURLList {
		if ext := path.Ext(baseURL); ext != "" {
			baseURL = baseURL[:len(baseURL)-len(ext)]
		}

		for _, targetExt := range targetExtensions {
			result = append(result, baseURL+targetExt)
		}
	}

	return result, nil
}

// rewriteThumbnailPath swaps the leading "thumbnails" path segment for
// `endpoint` and the "thumbnail_" file name prefix for `prefix`. This
// function assumes `segments` has more than 2 elements.
func rewriteThumbnailPath(u *urlmod.URL, segments []string, endpoint string, prefix string) string {
	mainEndpoint := segments[1]
	if mainEndpoint == "thumbnails" {
		mainEndpoint = endpoint
	}

	filename := segments[len(segments)-1]
	if strings.HasPrefix(filename, "thumbnail_") {
		filename = prefix + strings.TrimPrefix(filename, "thumbnail_")
	}

	newSegments := []string{"", mainEndpoint}
	newSegments = append(newSegments, segments[2:len(segments)-1]...)
	newSegments = append(newSegments, filename)

	newURL := *u
	newURL.Path = path.Join(newSegments...)

	return newURL.String()
}
