package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "complete <id>...",
		Short: "Mark scanned memories as processed",
		Long:  "Record that the given memory ids have been through entity extraction. Marks are idempotent and persisted atomically.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runComplete,
	}

	RootCmd.AddCommand(cmd)
}

func runComplete(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	led := openLedger(cfg, logger)
	result := led.Complete(args)

	if formatFlag == "json" {
		b, _ := json.Marshal(result)
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Marked %d newly processed (%d total).\n", result.New, result.Total)
}
