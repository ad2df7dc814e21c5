package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/scanner"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find remote memories awaiting entity extraction",
		Long:  "Scan the remote memory store for records not yet processed into the knowledge graph and print a summarized batch for the extraction step.",
		Run:   runScan,
	}

	cmd.Flags().IntP("batch", "b", scanner.DefaultBatchSize, "Max memories per batch")

	RootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, args []string) {
	batch, _ := cmd.Flags().GetInt("batch")

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	led := openLedger(cfg, logger)
	s := scanner.New(newClient(cfg), led, logger)

	memories, err := s.Scan(cmd.Context(), batch)
	if err != nil {
		exitErr("scan", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(memories, "", "  ")
		fmt.Println(string(b))
		return
	}

	if len(memories) == 0 {
		last := led.LastScanAt()
		if last == "" {
			last = "never"
		}
		fmt.Printf("No unprocessed memories found (%d processed, last scan: %s).\n",
			led.TotalProcessed(), last)
		return
	}

	fmt.Printf("Found %d unprocessed memories:\n", len(memories))
	for _, m := range memories {
		title := m.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("\n[%s] %s — %s\n", m.Source, m.ResourceID, title)
		for _, line := range strings.Split(m.Summary, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
	fmt.Printf("\nRun `memnet complete <ids...>` after extracting entities.\n")
}
