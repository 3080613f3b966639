package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strogmv/userstore/internal/app"
	"github.com/strogmv/userstore/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the stored users as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, closeFn, err := app.NewStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			users, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load users: %w", err)
			}
			b, err := json.MarshalIndent(users, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
