// Package clientflag declares the client connection flags shared by all
// scraping subcommands and turns them into a booru client.
package clientflag

import (
	"os"
	"time"

	"boorukit/booru"
	"boorukit/common"
	"github.com/urfave/cli/v3"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "board URL, e.g. https://rule34.xxx/index.php",
		},
		&cli.StringFlag{
			Name:  "proxy",
			Usage: "proxy url, e.g. http://127.0.0.1:1080",
		},
		&cli.IntFlag{
			Name:  "retry",
			Usage: "retry count for rate limited requests",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "request timeout",
			Value: 30 * time.Second,
		},
	}
}

// NewClient builds a client from command flags. Flag values take
// precedence over BOORU_BASE_URL and BOORU_PROXY environment values.
func NewClient(cmd *cli.Command) (*booru.Client, error) {
	return booru.New(booru.Options{
		BaseURL:    common.GetStrOr(cmd.String("base-url"), os.Getenv("BOORU_BASE_URL")),
		ProxyURL:   common.GetStrOr(cmd.String("proxy"), os.Getenv("BOORU_PROXY")),
		Timeout:    cmd.Duration("timeout"),
		RetryCount: int(cmd.Int("retry")),
	})
}
