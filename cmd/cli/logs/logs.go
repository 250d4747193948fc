package logs

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/privlab/leakshare/cmd/cli/config"
	"github.com/privlab/leakshare/cmd/cli/output"
)

// ==========================
// Init Logs
// ==========================
func InitLogs(rootCmd *cobra.Command) {
	rootCmd.AddCommand(listLogsCmd())
}

type logEntry struct {
	ID            int       `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Endpoint      string    `json:"endpoint"`
	Method        string    `json:"method"`
	UserID        *int      `json:"user_id"`
	IPAddress     string    `json:"ip_address"`
	IsPrivacyLeak bool      `json:"is_privacy_leak"`
	LeakType      *string   `json:"leak_type"`
}

// ==========================
// LIST (admin view of the access log)
// ==========================
func listLogsCmd() *cobra.Command {
	var limit int
	var leaksOnly bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List access log entries (admin)",
		Long: `List the most recent access log entries, newest first.

Requires an admin token. Use --leaks to show only entries the server tagged
as privacy leaks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			url := config.APIURL() + "/admin/logs?limit=" + strconv.Itoa(limit)
			req, _ := http.NewRequest("GET", url, nil)
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

			var result struct {
				Logs         []logEntry `json:"logs"`
				PrivacyLeaks int        `json:"privacy_leaks"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			entries := result.Logs
			if leaksOnly {
				filtered := entries[:0]
				for _, e := range entries {
					if e.IsPrivacyLeak {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}

			if jsonOutput {
				b, _ := json.MarshalIndent(entries, "", "  ")
				fmt.Println(string(b))
				return nil
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				leak := ""
				if e.LeakType != nil {
					leak = *e.LeakType
				}
				user := "-"
				if e.UserID != nil {
					user = strconv.Itoa(*e.UserID)
				}
				rows = append(rows, []interface{}{
					e.ID, e.Timestamp.Format(time.RFC3339), e.Method, e.Endpoint, user, leak,
				})
			}
			output.RenderTable([]string{"ID", "Timestamp", "Method", "Endpoint", "User", "Leak"}, rows)
			fmt.Printf("Total privacy leaks recorded: %d\n", result.PrivacyLeaks)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of entries to fetch")
	cmd.Flags().BoolVar(&leaksOnly, "leaks", false, "Show only leak-tagged entries")
	cmd.Flags().BoolP("json", "j", false, "Output raw JSON instead of a table")

	return cmd
}
