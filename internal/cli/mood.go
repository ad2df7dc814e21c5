package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/config"
	"github.com/quietfold/memnet/internal/relationship"
)

func init() {
	moodCmd := &cobra.Command{
		Use:   "mood",
		Short: "Show the relationship state for the current user",
		Run:   runMoodShow,
	}
	moodCmd.Flags().Int("history", 0, "Also show the last N recorded interactions")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record an interaction and its sentiment",
		Run:   runMoodRecord,
	}
	recordCmd.Flags().StringP("sentiment", "s", "neutral", "Sentiment: positive, negative, neutral")
	recordCmd.Flags().String("note", "", "Optional note about the interaction")

	moodCmd.AddCommand(recordCmd)
	RootCmd.AddCommand(moodCmd)
}

func openRelationship(cfg *config.Config, logger *zap.Logger) *relationship.Store {
	store, err := relationship.NewStore(filepath.Join(cfg.Workspace, "relationship.db"), logger)
	if err != nil {
		exitErr("open relationship store", err)
	}
	return store
}

func moodUser(cfg *config.Config) string {
	if cfg.UserID != "" {
		return cfg.UserID
	}
	return "default"
}

func runMoodShow(cmd *cobra.Command, args []string) {
	historyN, _ := cmd.Flags().GetInt("history")

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	store := openRelationship(cfg, logger)
	defer store.Close()

	state, err := store.Current(cmd.Context(), moodUser(cfg))
	if err != nil {
		exitErr("mood", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(state, "", "  ")
		fmt.Println(string(b))
		return
	}

	fmt.Printf("warmth: %.2f  trust: %.2f  familiarity: %.2f  interactions: %d\n",
		state.Warmth, state.Trust, state.Familiarity, state.InteractionCount)
	if state.LastInteractionAt != nil {
		fmt.Printf("last interaction: %s\n", state.LastInteractionAt.Format("2006-01-02 15:04"))
	}

	if historyN > 0 {
		events, err := store.History(cmd.Context(), moodUser(cfg), historyN)
		if err != nil {
			exitErr("mood history", err)
		}
		for _, e := range events {
			note := e.Note
			if note != "" {
				note = " — " + note
			}
			fmt.Printf("%s  %s%s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Sentiment, note)
		}
	}
}

func runMoodRecord(cmd *cobra.Command, args []string) {
	sentiment, _ := cmd.Flags().GetString("sentiment")
	note, _ := cmd.Flags().GetString("note")

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	store := openRelationship(cfg, logger)
	defer store.Close()

	state, err := store.Record(cmd.Context(), relationship.RecordParams{
		UserID:    moodUser(cfg),
		Sentiment: sentiment,
		Note:      note,
	})
	if err != nil {
		exitErr("mood record", err)
	}

	if formatFlag == "json" {
		b, _ := json.Marshal(state)
		fmt.Println(string(b))
		return
	}
	fmt.Printf("warmth: %.2f  trust: %.2f  familiarity: %.2f\n",
		state.Warmth, state.Trust, state.Familiarity)
}
