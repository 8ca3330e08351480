package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/printshop/internal/config"
	"github.com/fairyhunter13/printshop/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(); err != nil {
			return err
		}
		created, err := st.Seed(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("created %d products\n", created)
		return nil
	},
}
