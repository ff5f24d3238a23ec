// mepscheck parses and validates MEPS clearing files offline, without the
// ingestion service or its database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clearport/mepsfeed/internal/meps"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mepscheck",
	Short: "Validate MEPS payment-clearing files",
	Long: `mepscheck parses a MEPS clearing file, cross-checks the trailer's
asserted totals against the detail records, and prints a summary.

The exit code is 0 for a valid file and 1 for any structural, field or
validation error.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse and validate one or more clearing files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var failed bool
		for _, path := range args {
			if err := checkFile(cmd, path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("one or more files failed validation")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mepscheck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mepscheck %s\n", version)
	},
}

func checkFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cf, err := meps.Parse(meps.SplitLines(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", cf.Header.IDFich)
	fmt.Fprintf(out, "Entity: %s\n", cf.Header.Entidade)
	fmt.Fprintf(out, "Currency: %s\n", cf.Header.CodMoeda)
	fmt.Fprintf(out, "Number of transactions: %d\n", len(cf.Details))
	fmt.Fprintf(out, "Total amount: %s\n", cf.Trailer.MontranPS.StringFixed(2))
	fmt.Fprintf(out, "Total fees: %s\n", cf.Trailer.TotTarPS.StringFixed(2))
	fmt.Fprintf(out, "VAT amount: %s\n", cf.Trailer.ValIVA.StringFixed(2))
	return nil
}

func main() {
	rootCmd.AddCommand(checkCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
