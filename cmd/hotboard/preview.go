package main

import (
	"github.com/spf13/cobra"
)

func newPreviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <url>",
		Short: "Print title, description and image of a hot item's page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board()
			if err != nil {
				return err
			}
			defer board.Close()

			meta, err := board.Previewer().Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(meta)
		},
	}
}
