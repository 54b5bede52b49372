package grab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidateFileURLs(t *testing.T) {
	urls, err := candidateFileURLs("https://wimg.example.com/thumbnails/1234/thumbnail_abcdef.jpg")
	require.NoError(t, err)

	require.Contains(t, urls, "https://wimg.example.com/images/1234/abcdef.jpg")
	require.Contains(t, urls, "https://wimg.example.com/images/1234/abcdef.png")
	require.Contains(t, urls, "https://wimg.example.com/images/1234/abcdef.gif")
	require.Contains(t, urls, "https://wimg.example.com/samples/1234/sample_abcdef.jpg")

	// originals come before samples
	require.Equal(t, "https://wimg.example.com/images/1234/abcdef.jpg", urls[0])
	require.Len(t, urls, 2*len(targetExtensions))
}

func TestCandidateFileURLsShortPath(t *testing.T) {
	urls, err := candidateFileURLs("https://wimg.example.com/thumbnail_abcdef.jpg")
	require.NoError(t, err)
	require.Empty(t, urls)
}
