package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/recall"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Assemble relevant context for an agent turn",
		Long:  "Search connected sources, score and pack results into a token budget, and print the context block to inject ahead of the turn.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRecall,
	}

	cmd.Flags().IntP("budget", "b", 0, "Max tokens in output (default from config)")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	budget, _ := cmd.Flags().GetInt("budget")

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	if budget <= 0 {
		budget = cfg.ContextBudget
	}

	a := recall.New(newClient(cfg), logger)
	result, err := a.Assemble(cmd.Context(), recall.Params{
		Query:  strings.Join(args, " "),
		Budget: budget,
	})
	if err != nil {
		exitErr("recall", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(b))
		return
	}

	block := recall.RenderBlock(result)
	if block == "" {
		fmt.Println("No relevant context found.")
		return
	}
	fmt.Println(block)
}
