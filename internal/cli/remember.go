package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/chunker"
	"github.com/quietfold/memnet/internal/hyperspell"
	"github.com/quietfold/memnet/internal/pusher"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [content]",
		Short: "Store a memory in the remote store",
		Long:  "Store a memory. Content can be a positional arg or piped via stdin. Long content is split on block boundaries and stored as a series.",
		Run:   runRemember,
	}

	cmd.Flags().StringP("title", "t", "", "Memory title")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")

	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("remember", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	client := newClient(cfg)
	parts := chunker.Split(content, chunker.DefaultOptions())

	for i, part := range parts {
		partTitle := title
		if partTitle != "" && len(parts) > 1 {
			partTitle = fmt.Sprintf("%s (part %d/%d)", title, i+1, len(parts))
		}
		id, err := client.AddMemory(cmd.Context(), hyperspell.AddMemoryParams{
			Text:       part,
			Title:      partTitle,
			Collection: pusher.Collection,
			Metadata:   map[string]string{"agent_source": "memory-network"},
		})
		if err != nil {
			exitErr("remember", err)
		}
		fmt.Println(id)
	}
}
