package cmd

import (
	"fmt"
	"io"

	"github.com/sergev/diskcopy/convert"
	"github.com/sergev/diskcopy/dc42"
	"github.com/spf13/cobra"
)

var ignoreDataChecksum bool

var extractCmd = &cobra.Command{
	Use:   "extract SRC.dc42 DEST.img",
	Short: "Extract the raw disk data from a Disk Copy 4.2 image",
	Long: `Extract the raw disk data from a Disk Copy 4.2 image.
Tag data is not extracted. A data checksum mismatch is an error unless
--ignore-data-checksum is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcFilename := args[0]
		destFilename := args[1]

		opts := options()
		opts.IgnoreDataChecksum = conf.IgnoreDataChecksum
		if cmd.Flags().Changed("ignore-data-checksum") {
			opts.IgnoreDataChecksum = ignoreDataChecksum
		}

		src, err := openImage(srcFilename)
		if err != nil {
			return err
		}
		defer src.Close()

		var header dc42.Header
		err = writeImage(destFilename, func(w io.Writer) error {
			header, err = convert.Extract(src, w, opts)
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", srcFilename, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Read %d bytes (%d HFS blocks) into %s\n",
			header.DataSize(), header.DataSize()/dc42.BlockSize, destFilename)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&ignoreDataChecksum, "ignore-data-checksum", false, "extract even if the data checksum does not match")
	rootCmd.AddCommand(extractCmd)
}
