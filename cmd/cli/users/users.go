package users

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/privlab/leakshare/cmd/cli/config"
	"github.com/privlab/leakshare/cmd/cli/output"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Browse users",
	}

	usersCmd.AddCommand(listUsersCmd(), showUserCmd())
	rootCmd.AddCommand(usersCmd)
}

type userView struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	Email       *string `json:"email"`
	Bio         *string `json:"bio"`
	EmailPublic *bool   `json:"email_public"`
	BioPublic   *bool   `json:"bio_public"`
}

// ==========================
// LIST (the unauthenticated bulk dump)
// ==========================
func listUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users via the bulk endpoint",
		Long: `List every user through /api/users.

This endpoint needs no authentication and returns emails regardless of each
user's visibility settings; the server tags the access as email_leak.`,
		Run: func(cmd *cobra.Command, args []string) {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			resp, err := http.Get(config.APIURL() + "/api/users")
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var users []userView
			if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			if jsonOutput {
				b, _ := json.MarshalIndent(users, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				email := ""
				if u.Email != nil {
					email = *u.Email
				}
				rows = append(rows, []interface{}{u.ID, u.Username, email})
			}
			output.RenderTable([]string{"ID", "Username", "Email"}, rows)
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output raw JSON instead of a table")
	return cmd
}

// ==========================
// SHOW (public profile)
// ==========================
func showUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [username]",
		Short: "Show a user's public profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			resp, err := http.Get(config.APIURL() + "/users/" + args[0])
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				fmt.Println("user not found")
				return
			}

			var profile struct {
				User  userView `json:"user"`
				Posts []struct {
					ID    int    `json:"id"`
					Title string `json:"title"`
				} `json:"posts"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			if jsonOutput {
				b, _ := json.MarshalIndent(profile, "", "  ")
				fmt.Println(string(b))
				return
			}

			fmt.Printf("Username: %s\n", profile.User.Username)
			if profile.User.Email != nil {
				fmt.Printf("Email: %s\n", *profile.User.Email)
			}
			if profile.User.Bio != nil {
				fmt.Printf("Bio: %s\n", *profile.User.Bio)
			}
			if len(profile.Posts) > 0 {
				fmt.Println("\nPublic posts:")
				for _, p := range profile.Posts {
					fmt.Printf("- [%d] %s\n", p.ID, p.Title)
				}
			}
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output raw JSON instead of formatted text")
	return cmd
}
