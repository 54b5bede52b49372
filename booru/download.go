package booru

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const downloadAccept = "image/webp,image/apng,image/*,*/*;q=0.8"

// Download streams a file URL to `outputPath`, creating parent
// directories as needed. The request carries an image Accept header and
// the board URL as referer, some file hosts reject requests without them.
func (c *Client) Download(ctx context.Context, fileURL string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o777); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", outputPath, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", downloadAccept).
		SetHeader("Referer", c.baseURL).
		Get(fileURL)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", fileURL, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return &StatusError{Code: resp.StatusCode(), URL: fileURL}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", outputPath, err)
	}

	writer := bufio.NewWriter(file)
	if _, err := io.Copy(writer, body); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return file.Close()
}

// DownloadPost fetches details of a post and stores its file as
// `<id>.<ext>` under `dir`, returning the written path. With `useSample`
// the smaller sample file is preferred when the post has one.
func (c *Client) DownloadPost(ctx context.Context, id int, dir string, useSample bool) (string, error) {
	details, err := c.PostDetails(ctx, id)
	if err != nil {
		return "", err
	}

	fileURL := details.ImageURL
	if useSample && details.SampleURL != "" {
		fileURL = details.SampleURL
	}
	if fileURL == "" {
		return "", fmt.Errorf("post %d has no downloadable file", id)
	}

	outputPath := filepath.Join(dir, strconv.Itoa(id)+fileExt(fileURL))
	if err := c.Download(ctx, fileURL, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// fileExt returns the extension of a file URL with any query part stripped.
func fileExt(fileURL string) string {
	if i := strings.Index(fileURL, "?"); i >= 0 {
		fileURL = fileURL[:i]
	}
	return path.Ext(fileURL)
}
