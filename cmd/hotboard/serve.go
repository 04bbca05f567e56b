package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/hotboard/internal/logger"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Refresh every configured platform on the refresh interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.InfoObj("hotboard starting", "config", c.cfg)

			board, err := c.board()
			if err != nil {
				return err
			}
			if err := board.AttachPublishers(cmd.Context()); err != nil {
				board.Close()
				return err
			}
			return board.Run(cmd.Context())
		},
	}
}
