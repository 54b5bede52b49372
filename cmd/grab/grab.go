package grab

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"boorukit/booru"
	"boorukit/common"
	"boorukit/database"
	grablib "boorukit/grab"
	"github.com/urfave/cli/v3"
)

const defaultDbName = "archive.db"

func Cmd() *cli.Command {
	cmd := &cli.Command{
		Name:  "grab",
		Usage: "bulk downloading of posts matching a tag",
		Commands: []*cli.Command{
			subCmdDownloadTag(),
			subCmdRetryFailed(),
		},
	}

	return cmd
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "board URL, e.g. https://rule34.xxx/index.php",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "path to archive database file",
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "request delay",
			Value: 20 * time.Millisecond,
		},
		&cli.IntFlag{
			Name:  "job",
			Usage: "concurrent download job count",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "path to output directory",
		},
		&cli.StringFlag{
			Name:  "proxy",
			Usage: "proxy url, e.g. http://127.0.0.1:1080",
		},
		&cli.IntFlag{
			Name:  "retry",
			Usage: "retry count for each download",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "request timeout",
			Value: 30 * time.Second,
		},
	}
}

func makeOptions(cmd *cli.Command) *grablib.Options {
	options := &grablib.Options{
		ProxyURL: common.GetStrOr(cmd.String("proxy"), os.Getenv("BOORU_PROXY")),
		JobCnt:   int(cmd.Int("job")),
		RetryCnt: int(cmd.Int("retry")),
		Timeout:  cmd.Duration("timeout"),
		Delay:    cmd.Duration("delay"),

		IgnoreFailed: cmd.Bool("update"),
	}

	if options.JobCnt <= 0 {
		options.JobCnt = runtime.NumCPU()
	}

	return options
}

func baseURLFrom(cmd *cli.Command) string {
	return common.GetStrOr(
		cmd.String("base-url"),
		common.GetStrOr(os.Getenv("BOORU_BASE_URL"), booru.DefaultBaseURL),
	)
}

func subCmdDownloadTag() *cli.Command {
	var tag string
	var fromPage int64
	var toPage int64

	return &cli.Command{
		Name:  "tag",
		Usage: "download all files of a tag, download page range can be specified by starting and ending page number or ending page number alone.",
		Flags: append(
			commonFlags(),
			&cli.BoolFlag{
				Name:  "update",
				Usage: "indicating this download is doing update for existing collection, entries marked as failed are left for retry-failed",
				Value: false,
			},
		),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "tag",
				UsageText:   "<tag>",
				Destination: &tag,
				Min:         1,
				Max:         1,
			},
			&cli.IntArg{
				Name:        "page-st",
				UsageText:   " <page num>",
				Destination: &fromPage,
				Max:         1,
			},
			&cli.IntArg{
				Name:        "page-ed",
				UsageText:   " <page num>",
				Destination: &toPage,
				Max:         1,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			options := makeOptions(cmd)
			outputDir := common.GetStrOr(cmd.String("output"), common.InvalidPathCharReplace(tag))

			dbPath := common.GetStrOr(cmd.String("db"), defaultDbName)
			db, err := database.Open(common.ResolveRelativePath(dbPath, outputDir))
			if err != nil {
				return err
			}

			if toPage <= 0 {
				if fromPage > 0 {
					toPage = fromPage
					fromPage = 0
				} else {
					toPage = 1
				}
			}
			if fromPage <= 0 {
				fromPage = 1
			}
			if fromPage > toPage {
				fromPage, toPage = toPage, fromPage
			}

			target := grablib.Target{
				Options: options,
				DB:      db,

				BaseURL:   baseURLFrom(cmd),
				Tag:       tag,
				OutputDir: outputDir,
				FromPage:  int(fromPage),
				ToPage:    int(toPage),
			}

			return grablib.DownloadTag(target)
		},
	}
}

func subCmdRetryFailed() *cli.Command {
	var tag string

	return &cli.Command{
		Name:  "retry-failed",
		Usage: "retry archive entries of a tag that are marked as download failed",
		Flags: commonFlags(),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "tag",
				UsageText:   "<tag>",
				Destination: &tag,
				Min:         1,
				Max:         1,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			options := makeOptions(cmd)
			options.IgnoreFailed = false

			outputDir := common.GetStrOr(cmd.String("output"), common.InvalidPathCharReplace(tag))

			dbPath := common.GetStrOr(cmd.String("db"), defaultDbName)
			db, err := database.Open(common.ResolveRelativePath(dbPath, outputDir))
			if err != nil {
				return err
			}

			target := grablib.Target{
				Options: options,
				DB:      db,

				BaseURL:   baseURLFrom(cmd),
				Tag:       tag,
				OutputDir: outputDir,
			}

			if err := grablib.RetryFailed(target); err != nil {
				return fmt.Errorf("failed to retry downloads for %s: %s", tag, err)
			}

			return nil
		},
	}
}
