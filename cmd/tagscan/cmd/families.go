package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tagscan/tagscan/internal/family"
)

// familiesCmd represents the families command.
var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List supported tag families",
	Long: `List the closed set of tag families the detector can be built for,
with each family's payload size and minimum Hamming distance.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%-18s %6s %12s\n", "FAMILY", "BITS", "MIN HAMMING")
		for _, name := range family.Names() {
			spec, err := family.Lookup(name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%-18s %6d %12d\n", spec.Name, spec.Bits, spec.MinHamming)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(familiesCmd)
}
