package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	fileconv "github.com/nicholasgasior/fileconv-go"
)

var formatsCmd = &cobra.Command{
	Use:   "formats [type]",
	Short: "List supported formats and their conversion targets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := fileconv.DefaultRegistry()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 1 {
			f, err := resolveFormat(reg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s (%s)\n", reg.Name(f), f)
			for _, t := range reg.Targets(f) {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", reg.Extension(t), reg.Name(t), t)
			}
			return nil
		}

		fmt.Fprintln(w, "EXT\tNAME\tTARGETS")
		for _, src := range reg.Sources() {
			var exts []string
			for _, t := range reg.Targets(src) {
				exts = append(exts, reg.Extension(t))
			}
			fmt.Fprintf(w, "%s\t%s\t%v\n", reg.Extension(src), reg.Name(src), exts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
