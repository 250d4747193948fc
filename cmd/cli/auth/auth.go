package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/privlab/leakshare/cmd/cli/config"
)

// InitAuth registers the auth commands (register, login, logout) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, email, password, bio string
	var emailPublic, bioPublic bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Long:  "Create a new LeakShare account. Visibility of email and bio is chosen at signup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("username, email and password are required")
			}

			payload := map[string]interface{}{
				"username":     username,
				"email":        email,
				"password":     password,
				"bio":          bio,
				"email_public": emailPublic,
				"bio_public":   bioPublic,
			}
			if err := callJSONEndpoint("/auth/register", payload, nil); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}

			fmt.Println("Account registered. You can now login.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&bio, "bio", "", "Profile bio")
	cmd.Flags().BoolVar(&emailPublic, "email-public", false, "Make the email visible on the public profile")
	cmd.Flags().BoolVar(&bioPublic, "bio-public", true, "Make the bio visible on the public profile")

	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a token",
		Long:  "Authenticate with the LeakShare API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			var loginResp struct {
				Token string `json:"token"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := callJSONEndpoint("/auth/login", payload, &loginResp); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.TokenExists() {
				fmt.Println("No user logged in.")
				return nil
			}
			if err := config.RemoveToken(); err != nil {
				return err
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

func callJSONEndpoint(path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}

	return nil
}
