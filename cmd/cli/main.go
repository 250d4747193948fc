package main

import (
	"fmt"
	"os"

	"github.com/privlab/leakshare/cmd/cli/auth"
	"github.com/privlab/leakshare/cmd/cli/logs"
	"github.com/privlab/leakshare/cmd/cli/posts"
	"github.com/privlab/leakshare/cmd/cli/root"
	"github.com/privlab/leakshare/cmd/cli/scraper"
	"github.com/privlab/leakshare/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	posts.InitPosts(rootCmd)
	logs.InitLogs(rootCmd)
	scraper.InitScraper(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
