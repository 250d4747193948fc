package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/privlab/leakshare/cmd/cli/config"
	"github.com/privlab/leakshare/cmd/cli/output"
)

// ==========================
// Init Posts
// ==========================
func InitPosts(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}

	postsCmd.AddCommand(listPostsCmd(), createPostCmd(), deletePostCmd())
	rootCmd.AddCommand(postsCmd)
}

type postView struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorUsername string `json:"author_username"`
}

// ==========================
// LIST (public feed)
// ==========================
func listPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public posts",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			resp, err := http.Get(config.APIURL() + "/posts")
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var posts []postView
			if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			if jsonOutput {
				b, _ := json.MarshalIndent(posts, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(posts))
			for _, p := range posts {
				rows = append(rows, []interface{}{p.ID, p.Title, p.AuthorUsername})
			}
			output.RenderTable([]string{"ID", "Title", "Author"}, rows)
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output raw JSON instead of a table")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createPostCmd() *cobra.Command {
	var title, content string
	var private bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]interface{}{
				"title":     title,
				"content":   content,
				"is_public": !private,
			}
			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", config.APIURL()+"/posts", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("API error: %s", string(b))
			}

			fmt.Println("Post created")
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post content")
	cmd.Flags().BoolVar(&private, "private", false, "make the post private")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")

	return cmd
}

// ==========================
// DELETE (soft delete)
// ==========================
func deletePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, _ := http.NewRequest("POST", config.APIURL()+"/posts/"+args[0]+"/delete", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("API error: %s", string(b))
			}

			fmt.Println("Post deleted")
			return nil
		},
	}
}
