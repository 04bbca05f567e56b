package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/hotboard/pkg/sources"
)

func newSourcesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sources [platform]",
		Short: "List configured sources in priority order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			platforms := sources.KnownPlatforms()
			if len(args) == 1 {
				p, ok := sources.NormalizePlatform(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", sources.ErrUnsupportedPlatform, args[0])
				}
				platforms = []string{p}
			}

			reg, err := sources.LoadRegistry(c.cfg.SourcesFile, sources.Options{})
			if err != nil {
				return fmt.Errorf("load sources registry: %w", err)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATFORM\tID\tTYPE\tDEFAULT\tENABLED")
			for _, p := range platforms {
				cfgs, err := reg.Configs(p)
				if err != nil {
					return err
				}
				for _, cfg := range cfgs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\n", cfg.Platform, cfg.ID, cfg.Type, cfg.Default, cfg.EnabledValue())
				}
			}
			return tw.Flush()
		},
	}
}
