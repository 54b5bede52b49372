// Package booru is a typed scraping client for booru-style image boards
// with a rule34-compatible index.php page layout.
package booru

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"boorukit/booru/model"
	"boorukit/common"
	"boorukit/scrape"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://rule34.xxx/index.php"
	DefaultPostsPerPage = 42

	defaultTimeout      = 30 * time.Second
	defaultRetryCount   = 3
	defaultRetryWait    = 2 * time.Second
	defaultRetryMaxWait = 30 * time.Second
)

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

type Options struct {
	BaseURL      string            // board URL, e.g. https://rule34.xxx/index.php
	Timeout      time.Duration     // request timeout
	PostsPerPage int               // grid size used for pagination offset
	Headers      map[string]string // extra headers merged over defaults
	ProxyURL     string            // proxy URL, e.g. http://127.0.0.1:1080

	RetryCount       int           // attempts on 429 and 5xx responses
	RetryWaitTime    time.Duration // initial wait between attempts
	RetryMaxWaitTime time.Duration // wait time cap

	// RequestsPerSecond caps the page request rate. Zero leaves
	// requests unpaced.
	RequestsPerSecond float64
}

type Client struct {
	baseURL      string
	postsPerPage int
	http         *resty.Client
	limiter      *rate.Limiter
}

func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	http := resty.New()
	http.SetCookieJar(jar)
	http.SetTimeout(common.GetDurationOr(opts.Timeout, defaultTimeout))
	http.SetRetryCount(common.GetIntOr(opts.RetryCount, defaultRetryCount))
	http.SetRetryWaitTime(common.GetDurationOr(opts.RetryWaitTime, defaultRetryWait))
	http.SetRetryMaxWaitTime(common.GetDurationOr(opts.RetryMaxWaitTime, defaultRetryMaxWait))
	http.AddRetryCondition(shouldRetry)

	for name, value := range defaultHeaders {
		http.SetHeader(name, value)
	}
	for name, value := range opts.Headers {
		http.SetHeader(name, value)
	}

	if opts.ProxyURL != "" {
		http.SetProxy(opts.ProxyURL)
	}

	client := &Client{
		baseURL:      common.GetStrOr(opts.BaseURL, DefaultBaseURL),
		postsPerPage: common.GetIntOr(opts.PostsPerPage, DefaultPostsPerPage),
		http:         http,
	}

	if opts.RequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return client, nil
}

// BaseURL returns the board URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// shouldRetry retries network errors, rate limiting and server errors.
// Other client errors will not change on a second attempt.
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// GetPosts fetches one listing page, returning its post grid and the tag
// sidebar. Page numbers are 1-indexed, values below 1 are treated as 1.
func (c *Client) GetPosts(ctx context.Context, tags string, page int) ([]model.Post, []model.Tag, error) {
	if page < 1 {
		page = 1
	}

	doc, _, err := c.fetch(ctx, map[string]string{
		"page": "post",
		"s":    "list",
		"tags": tags,
		"pid":  strconv.Itoa((page - 1) * c.postsPerPage),
	})
	if err != nil {
		return nil, nil, err
	}

	return scrape.Posts(doc, c.baseURL), scrape.SidebarTags(doc), nil
}

// Search fetches posts matching a space separated tag string.
func (c *Client) Search(ctx context.Context, tags string, page int) ([]model.Post, error) {
	posts, _, err := c.GetPosts(ctx, tags, page)
	return posts, err
}

// SidebarTags fetches the tag sidebar for a given search.
func (c *Client) SidebarTags(ctx context.Context, tags string) ([]model.Tag, error) {
	_, sidebarTags, err := c.GetPosts(ctx, tags, 1)
	return sidebarTags, err
}

// PostDetails fetches the view page of a single post. ErrPostNotFound is
// returned when the page carries no post.
func (c *Client) PostDetails(ctx context.Context, id int) (*model.PostDetails, error) {
	doc, body, err := c.fetch(ctx, map[string]string{
		"page": "post",
		"s":    "view",
		"id":   strconv.Itoa(id),
	})
	if err != nil {
		return nil, err
	}

	details := scrape.Details(doc, string(body))
	if details == nil {
		return nil, fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}

	return details, nil
}

// UserProfile fetches an account profile page by username. ErrUserNotFound
// is returned when no such account exists.
func (c *Client) UserProfile(ctx context.Context, username string) (*model.UserProfile, error) {
	doc, _, err := c.fetch(ctx, map[string]string{
		"page":  "account",
		"s":     "profile",
		"uname": username,
	})
	if err != nil {
		return nil, err
	}

	profile := scrape.Profile(doc, c.baseURL)
	if profile == nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}

	return profile, nil
}

func (c *Client) fetch(ctx context.Context, params map[string]string) (*goquery.Document, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, nil, &StatusError{Code: resp.StatusCode(), URL: resp.Request.URL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse response body: %w", err)
	}

	return doc, resp.Body(), nil
}
