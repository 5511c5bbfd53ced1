package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/quill"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite every document in canonical form",
		Long: `Read posts, categories and the profile through normalization and write
them back. Posts that break the publication rules are saved as drafts and
every post category is added to the category list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			app, err := quill.New(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Store.Canonicalize(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "normalized documents in %s storage\n", app.Config.Storage.Driver)
			return nil
		},
	}
}
