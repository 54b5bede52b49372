package booru

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const listingPage = `
<html><body><div id="content">
<ul id="tag-sidebar">
    <li class="tag-type-artist tag"><a href="index.php?page=post&s=list&tags=some_artist">some_artist</a> <span class="tag-count">128</span></li>
</ul>
<div class="content">
    <span class="thumb"><a id="p12345" href="index.php?page=post&s=view&id=12345"><img src="https://wimg.example.com/thumbnails/1234/thumbnail_abcdef.jpg" alt="blue_sky" title="blue_sky score:42 rating:safe"></a></span>
</div>
</div></body></html>
`

func detailPage(fileURL string) string {
	return fmt.Sprintf(`
<html><body><div id="content">
<ul id="tag-sidebar">
    <li class="tag"><a href="index.php?page=post&s=list&tags=blue_sky">blue_sky</a> <span class="tag-count">42</span></li>
</ul>
<div class="content">
    <img id="image" src="%s" alt="blue_sky">
    <script type="text/javascript">image = {'width':1280, 'height':960};</script>
</div>
<div id="stats"><ul>
    <li>Id: 54321</li>
    <li>Posted: 2023-05-01 10:11:12 by <a href="#">uploader_guy</a></li>
    <li>Rating: Safe</li>
    <li>Score: <span id="psc54321">12</span></li>
</ul></div>
</div></body></html>
`, fileURL)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(Options{
		BaseURL:          baseURL,
		RetryCount:       3,
		RetryWaitTime:    10 * time.Millisecond,
		RetryMaxWaitTime: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	return client
}

func TestGetPostsPagination(t *testing.T) {
	var gotQuery atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	posts, tags, err := client.GetPosts(context.Background(), "blue_sky", 3)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, 12345, posts[0].ID)
	require.Len(t, tags, 1)
	require.Equal(t, "some_artist", tags[0].Name)

	query := gotQuery.Load().(url.Values)
	require.Equal(t, "post", query.Get("page"))
	require.Equal(t, "list", query.Get("s"))
	require.Equal(t, "blue_sky", query.Get("tags"))
	require.Equal(t, "84", query.Get("pid"))
}

func TestRetryOnRateLimit(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	posts, err := client.Search(context.Background(), "blue_sky", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.EqualValues(t, 3, attempts.Load())
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	_, err := client.Search(context.Background(), "blue_sky", 1)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Code)
	require.False(t, statusErr.IsRateLimit())
}

func TestPostDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div id="content"><h1>This post was deleted.</h1></div></body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	_, err := client.PostDetails(context.Background(), 404404)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "view", r.URL.Query().Get("s"))
		require.Equal(t, "54321", r.URL.Query().Get("id"))
		fmt.Fprint(w, detailPage("https://wimg.example.com/samples/1234/sample_abcdef.jpg"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	details, err := client.PostDetails(context.Background(), 54321)
	require.NoError(t, err)
	require.Equal(t, 54321, details.ID)
	require.Equal(t, 1280, details.Width)
	require.Equal(t, 960, details.Height)
	require.Equal(t, "safe", details.Rating)
	require.Len(t, details.Tags, 1)
}

func TestUserProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div id="content"><div>No such user.</div></div></body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	_, err := client.UserProfile(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDownloadPost(t *testing.T) {
	fileData := []byte("not really a jpg")

	var fileAccept, fileReferer atomic.Value

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.php":
			fmt.Fprint(w, detailPage(server.URL+"/images/1234/abcdef.jpg"))
		case "/images/1234/abcdef.jpg":
			fileAccept.Store(r.Header.Get("Accept"))
			fileReferer.Store(r.Header.Get("Referer"))
			w.Write(fileData)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/index.php")

	outputDir := t.TempDir()
	outputName, err := client.DownloadPost(context.Background(), 54321, outputDir, false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outputDir, "54321.jpg"), outputName)

	data, err := os.ReadFile(outputName)
	require.NoError(t, err)
	require.Equal(t, fileData, data)

	// file hosts reject requests without an image Accept header and the
	// board as referer
	require.Contains(t, fileAccept.Load().(string), "image/")
	require.Equal(t, server.URL+"/index.php", fileReferer.Load().(string))
}

func TestRequestPacing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	client, err := New(Options{
		BaseURL:           server.URL + "/index.php",
		RequestsPerSecond: 20,
	})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Search(context.Background(), "blue_sky", 1)
		require.NoError(t, err)
	}

	// 20 req/s with burst 1 spaces three requests at least 100ms apart
	// in total
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
