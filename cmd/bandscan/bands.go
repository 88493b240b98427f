package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
)

func newBandsCmd() *cobra.Command {
	var (
		bandsFile string
		asYAML    bool
	)

	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Print the configured color bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bands, err := analyzer.LoadBands(bandsFile)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asYAML {
				data, err := analyzer.MarshalBands(bands)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BAND\tLOWER\tUPPER\tDESCRIPTION")
			for _, b := range bands {
				fmt.Fprintf(tw, "%s\t%v\t%v\t%s\n", b.Name, b.Lower.Triple(), b.Upper.Triple(), b.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&bandsFile, "bands", "", "YAML band file (default: built-in Schumann bands)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the bands as a YAML band file")
	return cmd
}
