package post

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"boorukit/cmd/internal/clientflag"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func Cmd() *cli.Command {
	var postID int64

	return &cli.Command{
		Name:  "post",
		Usage: "show detail info of a single post",
		Flags: append(
			clientflag.Flags(),
			&cli.BoolFlag{
				Name:  "download",
				Usage: "also download the post file",
			},
			&cli.BoolFlag{
				Name:  "sample",
				Usage: "download the sample file instead of the original",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "output directory for downloaded file",
				Value: ".",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print result as JSON instead of log lines",
			},
		),
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name:        "id",
				UsageText:   "<post id>",
				Destination: &postID,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if postID <= 0 {
				return fmt.Errorf("invalid post id: %d", postID)
			}

			client, err := clientflag.NewClient(cmd)
			if err != nil {
				return err
			}

			details, err := client.PostDetails(ctx, int(postID))
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(details); err != nil {
					return err
				}
			} else {
				log.Infof("#%d %dx%d rating:%s score:%d", details.ID, details.Width, details.Height, details.Rating, details.Score)
				log.Infof("uploaded by %s at %s", details.Uploader, details.PostedAt)
				log.Infof("file: %s", details.ImageURL)
				if details.SourceURL != "" {
					log.Infof("source: %s", details.SourceURL)
				}
				log.Infof("%d tag(s), %d comment(s)", len(details.Tags), len(details.Comments))
			}

			if cmd.Bool("download") {
				outputName, err := client.DownloadPost(ctx, int(postID), cmd.String("output"), cmd.Bool("sample"))
				if err != nil {
					return err
				}
				log.Infof("file downloaded: %s", outputName)
			}

			return nil
		},
	}
}
