package main

import (
	"github.com/spf13/cobra"

	"github.com/AOShei/procreate-meta/pkg/config"
	"github.com/AOShei/procreate-meta/pkg/vector"
)

var vectorCmd = &cobra.Command{
	Use:   "vector <image.png>",
	Short: "Extract an embedding vector from an image via the inference service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		cfg := config.Load()
		client := vector.New(vector.Config{
			BaseURL: cfg.EmbedURL,
			Timeout: cfg.EmbedTimeout,
			Logger:  log,
		})
		emb, err := client.Embed(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emitJSON(emb)
	},
}
