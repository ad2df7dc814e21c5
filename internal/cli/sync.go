package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/pusher"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload workspace markdown files to the remote store",
		Long:  "Re-upload entity files and general notes under the workspace memory directory. Files carrying a hyperspell_id are updated in place rather than duplicated.",
		Run:   runSync,
	}

	cmd.Flags().String("file", "", "Sync a single file instead of the whole workspace")

	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	p := pusher.New(newClient(cfg), logger)

	if file != "" {
		fr := p.SyncFile(cmd.Context(), file)
		if formatFlag == "json" {
			b, _ := json.Marshal(fr)
			fmt.Println(string(b))
			return
		}
		if !fr.Success {
			exitErr("sync", fmt.Errorf("%s: %s", fr.Path, fr.Error))
		}
		fmt.Printf("Synced %s (resource id %s).\n", fr.Path, fr.ResourceID)
		return
	}

	result, err := p.SyncAll(cmd.Context(), cfg.MemoryDir())
	if err != nil {
		exitErr("sync", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(b))
		return
	}

	fmt.Printf("Synced %d files, %d failed.\n", result.Synced, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
}
