package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// keywordsCmd creates the "keywords" subcommand: show the taxonomy the
// next run would use.
func keywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "Show the active keyword taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)

			cache := keywordCache(cfg, logger)
			taxonomy := cache.GetOrRefresh(context.Background(), time.Now().UTC())

			total := 0
			for _, category := range taxonomy.Categories {
				fmt.Printf("%s:\n", category)
				for _, keyword := range taxonomy.Keywords[category] {
					fmt.Printf("  - %s\n", keyword)
					total++
				}
			}
			fmt.Printf("\n%d keywords in %d categories\n", total, len(taxonomy.Categories))
			return nil
		},
	}
}
