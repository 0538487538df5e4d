package main

import (
	"github.com/spf13/cobra"

	"github.com/AOShei/procreate-meta/pkg/config"
	"github.com/AOShei/procreate-meta/pkg/loader"
	"github.com/AOShei/procreate-meta/pkg/tempstore"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.procreate>",
	Short: "Extract metadata from a .procreate file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		cfg := config.Load()
		store, err := tempstore.Open(cfg.TempDir)
		if err != nil {
			return err
		}

		l := loader.New(loader.Config{
			Store:         store,
			Logger:        log,
			HashChunkSize: cfg.HashChunkSize,
		})
		doc, err := l.Inspect(args[0])
		if err != nil {
			return err
		}
		return emitJSON(doc)
	},
}
