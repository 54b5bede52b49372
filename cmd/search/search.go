package search

import (
	"context"
	"encoding/json"
	"os"

	"boorukit/cmd/internal/clientflag"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func Cmd() *cli.Command {
	var tags string

	return &cli.Command{
		Name:  "search",
		Usage: "list posts matching a tag query",
		Flags: append(
			clientflag.Flags(),
			&cli.IntFlag{
				Name:  "page",
				Usage: "listing page number, starting from 1",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print result as JSON instead of log lines",
			},
		),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "tags",
				UsageText:   "<tags>",
				Destination: &tags,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := clientflag.NewClient(cmd)
			if err != nil {
				return err
			}

			posts, sidebar, err := client.GetPosts(ctx, tags, int(cmd.Int("page")))
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]any{
					"posts": posts,
					"tags":  sidebar,
				})
			}

			for _, post := range posts {
				log.Infof("#%d score:%d rating:%s %s", post.ID, post.Score, post.Rating, post.DetailURL)
			}
			log.Infof("%d post(s), %d sidebar tag(s)", len(posts), len(sidebar))

			return nil
		},
	}
}
