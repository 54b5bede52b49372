package network

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"testing"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/require"
)

func makeResponse(body []byte, encoding string) *colly.Response {
	headers := http.Header{}
	if encoding != "" {
		headers.Set("Content-Encoding", encoding)
	}

	return &colly.Response{
		Body:    body,
		Headers: &headers,
	}
}

func TestDecompressResponseBodyIdentity(t *testing.T) {
	body := []byte("plain body")

	data, err := DecompressResponseBody(makeResponse(body, ""))
	require.NoError(t, err)
	require.Equal(t, body, data)

	data, err = DecompressResponseBody(makeResponse(body, "identity"))
	require.NoError(t, err)
	require.Equal(t, body, data)
}

func TestDecompressResponseBodyGzip(t *testing.T) {
	body := []byte("some compressed page content")

	var buffer bytes.Buffer
	writer := gzip.NewWriter(&buffer)
	_, err := writer.Write(body)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	data, err := DecompressResponseBody(makeResponse(buffer.Bytes(), "gzip"))
	require.NoError(t, err)
	require.Equal(t, body, data)
}

func TestDecompressResponseBodyUnknownEncoding(t *testing.T) {
	_, err := DecompressResponseBody(makeResponse([]byte("whatever"), "lzma"))
	require.Error(t, err)
}
