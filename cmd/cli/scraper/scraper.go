package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/privlab/leakshare/cmd/cli/config"
)

// ==========================
// Init Scraper
// ==========================
func InitScraper(rootCmd *cobra.Command) {
	scraperCmd := &cobra.Command{
		Use:   "scraper",
		Short: "Control the harvest simulation (admin)",
	}

	scraperCmd.AddCommand(startCmd(), stopCmd(), statusCmd())
	rootCmd.AddCommand(scraperCmd)
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a harvest simulation run",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := callScraper("POST", "/scraper/start")
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Cancel the running harvest simulation",
		Long: `Request cancellation of the running harvest simulation.

The run only checks for cancellation between steps, so the current step
finishes before the run winds down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := callScraper("POST", "/scraper/stop")
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show harvest simulation progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			body, err := callScraper("GET", "/scraper/status")
			if err != nil {
				return err
			}

			if jsonOutput {
				fmt.Println(body)
				return nil
			}

			var status struct {
				Running bool `json:"running"`
				Results []struct {
					Action        string `json:"action"`
					URL           string `json:"url"`
					Status        string `json:"status"`
					LeakType      string `json:"leak_type"`
					DataCollected string `json:"data_collected"`
				} `json:"results"`
			}
			if err := json.Unmarshal([]byte(body), &status); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			if status.Running {
				fmt.Println("Scraper is running")
			} else {
				fmt.Println("Scraper is idle")
			}
			for _, e := range status.Results {
				line := fmt.Sprintf("- %s [%s]", e.Action, e.Status)
				if e.URL != "" {
					line += " " + e.URL
				}
				if e.DataCollected != "" {
					line += ": " + e.DataCollected
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output raw JSON instead of formatted text")
	return cmd
}

func callScraper(method, path string) (string, error) {
	token, err := config.LoadToken()
	if err != nil {
		return "", fmt.Errorf("please login first")
	}

	req, err := http.NewRequest(method, config.APIURL()+path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return "", fmt.Errorf("API error: %s", string(body))
	}
	return string(body), nil
}
