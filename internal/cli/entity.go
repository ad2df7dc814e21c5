package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietfold/memnet/internal/entity"
)

func init() {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Write or merge a knowledge-graph entity file",
		Long:  "Merge an extracted entity (person, project, organization, or topic) into its markdown file. Source memories and relationships only ever grow; repeated writes are safe.",
		Run:   runEntity,
	}

	cmd.Flags().StringP("type", "t", "", "Entity type: person, project, organization, topic (required)")
	cmd.Flags().StringP("slug", "s", "", "Entity slug (required; slugified from the value given)")
	cmd.Flags().StringP("name", "n", "", "Display name (required)")
	cmd.Flags().StringP("description", "d", "", "Free-text description")
	cmd.Flags().StringSliceP("rel", "r", nil, "Relationship edges, relation:targetType/targetSlug")
	cmd.Flags().String("sources", "", "JSON map of source system to contributing memory ids")
	cmd.Flags().String("email", "", "Email (people)")
	cmd.Flags().String("phone", "", "Phone (people)")
	cmd.Flags().String("domain", "", "Domain (organizations)")

	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("slug")
	cmd.MarkFlagRequired("name")

	RootCmd.AddCommand(cmd)
}

func runEntity(cmd *cobra.Command, args []string) {
	entityType, _ := cmd.Flags().GetString("type")
	slug, _ := cmd.Flags().GetString("slug")
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	rels, _ := cmd.Flags().GetStringSlice("rel")
	sourcesJSON, _ := cmd.Flags().GetString("sources")
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")
	domain, _ := cmd.Flags().GetString("domain")

	sources := map[string][]string{}
	if sourcesJSON != "" {
		if err := json.Unmarshal([]byte(sourcesJSON), &sources); err != nil {
			exitErr("entity", fmt.Errorf("invalid --sources JSON: %w", err))
		}
	}

	cfg := loadConfig()
	logger := newLogger()
	defer logger.Sync()

	w := entity.NewWriter(cfg.MemoryDir(), logger)
	path, err := w.Write(entity.Spec{
		Type:           entityType,
		Slug:           slug,
		Name:           name,
		Description:    description,
		Relationships:  rels,
		SourceMemories: sources,
		Email:          email,
		Phone:          phone,
		Domain:         domain,
	})
	if err != nil {
		exitErr("entity", err)
	}

	fmt.Println(path)
}
