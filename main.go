package main

import (
	"context"
	"fmt"
	"os"

	cmd_database "boorukit/cmd/database"
	cmd_grab "boorukit/cmd/grab"
	cmd_post "boorukit/cmd/post"
	cmd_search "boorukit/cmd/search"
	cmd_user "boorukit/cmd/user"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()

	cmd := &cli.Command{
		Name:    "boorukit",
		Usage:   "scraping and downloading helper for booru style image boards",
		Version: "0.1.0",
		Commands: []*cli.Command{
			cmd_search.Cmd(),
			cmd_post.Cmd(),
			cmd_user.Cmd(),
			cmd_grab.Cmd(),
			cmd_database.Cmd(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
