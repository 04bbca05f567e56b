package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd(c *cli) *cobra.Command {
	var (
		selector string
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <platform>",
		Short: "Fetch one platform's hot list and print it as JSON",
		Long: `Fetch one platform's hot list. With --source auto (the default) every
enabled source is tried in priority order; a source name tries only that
source. When every source fails the fresh cache is printed, or [] if the
cache is missing or stale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board()
			if err != nil {
				return err
			}
			defer board.Close()

			if !cmd.Flags().Changed("source") {
				selector = c.cfg.DefaultSource
			}

			job := board.Refresher().Start(cmd.Context(), args[0], selector)
			go func() {
				for line := range job.Progress() {
					if progress {
						fmt.Fprintln(cmd.ErrOrStderr(), line)
					}
				}
			}()

			out, ok := <-job.Done()
			if !ok {
				return fmt.Errorf("fetch of %s was stopped", args[0])
			}
			if out.Err != nil {
				return out.Err
			}
			return c.printJSON(out.Result)
		},
	}

	cmd.Flags().StringVarP(&selector, "source", "s", "auto", "source name, or auto to fall back across all sources")
	cmd.Flags().BoolVar(&progress, "progress", false, "print progress lines to stderr")
	return cmd
}
