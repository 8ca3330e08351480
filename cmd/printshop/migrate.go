package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/printshop/internal/config"
	"github.com/fairyhunter13/printshop/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
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
		fmt.Println("schema up to date")
		return nil
	},
}
