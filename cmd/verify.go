package cmd

import (
	"fmt"

	"github.com/sergev/diskcopy/convert"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify FILE.dc42",
	Short: "Check the structure and checksums of a Disk Copy 4.2 image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		header, err := convert.Verify(file, options())
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Read header:\n%s", header)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
