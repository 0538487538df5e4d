package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AOShei/procreate-meta/pkg/config"
	"github.com/AOShei/procreate-meta/pkg/model"
	"github.com/AOShei/procreate-meta/pkg/tempstore"
)

var clearTempCmd = &cobra.Command{
	Use:   "clear-temp [days]",
	Short: "Delete extracted previews older than N days (default 7)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days := 7
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid day count %q", args[0])
			}
			days = n
		}

		cfg := config.Load()
		store, err := tempstore.Open(cfg.TempDir)
		if err != nil {
			return err
		}
		removed, err := store.Purge(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return err
		}
		return emitJSON(model.PurgeResult{Removed: removed, TempDir: store.Dir()})
	},
}
