package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/hotboard/pkg/sources"
)

func newCacheCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "cache <platform>",
		Short: "Print the platform's cached hot list if it is still fresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, ok := sources.NormalizePlatform(args[0]); !ok {
				return fmt.Errorf("%w: %q", sources.ErrUnsupportedPlatform, args[0])
			}

			board, err := c.board()
			if err != nil {
				return err
			}
			defer board.Close()

			return c.printJSON(board.Fetcher().ReadCache(args[0]))
		},
	}
}
