package network

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
	"github.com/klauspost/compress/zstd"
)

type decompressorFactory = func(io.Reader) (io.Reader, error)

var decompressorFactories = map[string]decompressorFactory{
	"br": func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	},
	"deflate": func(r io.Reader) (io.Reader, error) {
		return flate.NewReader(r), nil
	},
	"gzip": func(r io.Reader) (io.Reader, error) {
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return reader, nil
	},
	"zstd": func(r io.Reader) (io.Reader, error) {
		reader, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return reader, nil
	},
}

// DecompressResponseBody decodes a response body according to its
// content-encoding header. Identity and empty encoding return body data
// unchanged.
func DecompressResponseBody(resp *colly.Response) ([]byte, error) {
	encoding := resp.Headers.Get("content-encoding")
	if encoding == "" || encoding == "identity" {
		return resp.Body, nil
	}

	factory, ok := decompressorFactories[encoding]
	if !ok {
		return nil, fmt.Errorf("unknown content-encoding: %s", encoding)
	}

	reader, err := factory(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress response: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress response: %w", err)
	}

	return data, nil
}
