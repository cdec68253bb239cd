package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	rootCmd   = &cobra.Command{
		Use:   "tik-relay",
		Short: "TikRelay CLI - resolve and download short-form video links",
		Long:  `A command-line client for the TikRelay server: resolve share links into direct media URLs or download the media itself.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(healthCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [url]",
	Short: "Resolve a share link into a direct download URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")

		payload, _ := json.Marshal(map[string]string{"tiktokUrl": args[0]})
		resp, err := http.Post(serverURL+"/api/download", "application/json", strings.NewReader(string(payload)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		var result map[string]interface{}
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid response: %s\n", string(body))
			os.Exit(1)
		}

		if ok, _ := result["ok"].(bool); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", result["error"])
			if details, present := result["details"]; present {
				pretty, _ := json.MarshalIndent(details, "", "  ")
				fmt.Fprintln(os.Stderr, string(pretty))
			}
			os.Exit(1)
		}

		if raw {
			pretty, _ := json.MarshalIndent(result["raw"], "", "  ")
			fmt.Println(string(pretty))
			return
		}

		fmt.Printf("Download URL: %s\n", result["downloadUrl"])
		if thumb, present := result["thumbnail"]; present {
			fmt.Printf("Thumbnail:    %s\n", thumb)
		}
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download the media for a direct URL through the relay",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		resp, err := http.Get(serverURL + "/stream?url=" + url.QueryEscape(args[0]))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		if output == "" {
			output = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
		}

		file, err := os.Create(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()

		written, err := io.Copy(file, resp.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Saved %s (%d bytes)\n", output, written)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/health")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var health map[string]interface{}
		json.Unmarshal(body, &health)

		fmt.Printf("Status:  %v\n", health["status"])
		fmt.Printf("Version: %v\n", health["version"])
	},
}

func init() {
	resolveCmd.Flags().BoolP("raw", "r", false, "Print the raw provider payload")
	fetchCmd.Flags().StringP("output", "o", "", "Output file name (default: name suggested by the server)")
}

// filenameFromDisposition pulls the suggested name out of a
// Content-Disposition header, falling back to a fixed name.
func filenameFromDisposition(disposition string) string {
	const fallback = "video.mp4"
	marker := `filename="`
	idx := strings.Index(disposition, marker)
	if idx < 0 {
		return fallback
	}
	rest := disposition[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end <= 0 {
		return fallback
	}
	return rest[:end]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
