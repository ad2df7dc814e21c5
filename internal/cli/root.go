// Package cli implements the memnet CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/config"
	"github.com/quietfold/memnet/internal/hyperspell"
	"github.com/quietfold/memnet/internal/ledger"
)

var (
	configPath    string
	workspaceFlag string
	formatFlag    string
	verboseFlag   bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memnet",
	Short: "Hyperspell-backed memory network for AI agents",
	Long:  "memnet connects an agent to a Hyperspell memory store: search and store memories, scan for entity extraction, and keep a local knowledge graph of markdown files in sync.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $MEMNET_CONFIG or ~/.memnet/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory override")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging")
}

func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	if workspaceFlag != "" {
		cfg.Workspace = workspaceFlag
	}
	return cfg
}

func newLogger() *zap.Logger {
	if verboseFlag {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, _ := cfg.Build()
	return logger
}

func newClient(cfg *config.Config) *hyperspell.Client {
	if cfg.APIKey == "" {
		exitErr("hyperspell", fmt.Errorf("no API key (set HYPERSPELL_API_KEY or api_key in config)"))
	}
	c := hyperspell.New(cfg.APIKey, cfg.BaseURL)
	if cfg.UserID != "" {
		c.WithAsUser(cfg.UserID)
	}
	return c
}

func openLedger(cfg *config.Config, logger *zap.Logger) *ledger.Manager {
	m, err := ledger.NewManager(cfg.MemoryDir(), logger)
	if err != nil {
		exitErr("open ledger", err)
	}
	return m
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
