package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"appcatalog/internal/app"
	"appcatalog/internal/cache"
	"appcatalog/internal/shared"
)

// fetch resolves names through the same cache as a full run and prints the
// standardised records.
func newFetchCmd(cfg *shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch NAME...",
		Short: "Look up apps in the catalog through the record cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			ctx := cmd.Context()
			catalog, err := newCatalog(*cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := newStore(*cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			sess, err := cache.Open(ctx, store)
			if err != nil {
				return err
			}
			recs, _, fetchErr := app.NewFetcher(catalog, sess).FetchRecords(ctx, names)
			if err := sess.Close(ctx); err != nil {
				return err
			}
			if fetchErr != nil {
				return fetchErr
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
}
