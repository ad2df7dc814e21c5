package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connected knowledge sources",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	client := newClient(cfg)
	conns, err := client.ListConnections(cmd.Context())
	if err != nil {
		exitErr("status", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(conns, "", "  ")
		fmt.Println(string(b))
		return
	}

	if len(conns) == 0 {
		fmt.Println("No connected sources.")
		return
	}
	for _, c := range conns {
		fmt.Printf("%-20s %s\n", c.Provider, c.Status)
	}
}
