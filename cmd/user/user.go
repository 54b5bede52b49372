package user

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
	var username string

	return &cli.Command{
		Name:  "user",
		Usage: "show profile info of a board user",
		Flags: append(
			clientflag.Flags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print result as JSON instead of log lines",
			},
		),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "username",
				UsageText:   "<username>",
				Destination: &username,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if username == "" {
				return fmt.Errorf("no username given")
			}

			client, err := clientflag.NewClient(cmd)
			if err != nil {
				return err
			}

			profile, err := client.UserProfile(ctx, username)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(profile)
			}

			log.Infof("%s (id %d), joined %s, level %s", profile.Username, profile.ID, profile.JoinDate, profile.Level)
			log.Infof("%d post(s), %d deleted, %d favorite(s)", profile.PostCount, profile.DeletedPostCount, profile.FavoriteCount)
			log.Infof("%d recent upload(s), %d recent favorite(s)", len(profile.RecentUploads), len(profile.RecentFavorites))

			return nil
		},
	}
}
