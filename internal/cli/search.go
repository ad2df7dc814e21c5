package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/hyperspell"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the user's connected knowledge sources",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 10, "Max results")
	cmd.Flags().StringSliceP("sources", "s", nil, "Restrict to sources (e.g. slack,notion)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	srcFlags, _ := cmd.Flags().GetStringSlice("sources")

	var sources []hyperspell.Source
	for _, s := range srcFlags {
		sources = append(sources, hyperspell.Source(strings.TrimSpace(s)))
	}

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	client := newClient(cfg)
	results, err := client.Search(cmd.Context(), hyperspell.SearchParams{
		Query:   strings.Join(args, " "),
		Sources: sources,
		Limit:   limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(b))
		return
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = r.ResourceID
		}
		fmt.Printf("[%s] %s\n", r.Source, title)
		if r.Snippet != "" {
			fmt.Printf("  %s\n", r.Snippet)
		}
	}
}
