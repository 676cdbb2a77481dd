package cmd

import (
	"fmt"
	"io"

	"github.com/sergev/diskcopy/convert"
	"github.com/sergev/diskcopy/dc42"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var noVerify bool

var createCmd = &cobra.Command{
	Use:   "create SRC.img DEST.dc42",
	Short: "Create a Disk Copy 4.2 image from a raw HFS image",
	Long: `Create a Disk Copy 4.2 image from a raw HFS image.
The volume name and size are taken from the HFS Master Directory Block.
Supported sizes are 400k, 800k, 720k and 1440k.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcFilename := args[0]
		destFilename := args[1]

		src, err := openImage(srcFilename)
		if err != nil {
			return err
		}
		defer src.Close()

		var header dc42.Header
		err = writeImage(destFilename, func(w io.Writer) error {
			header, err = convert.Create(src, w, options())
			if err != nil {
				return fmt.Errorf("failed to create %s from %s: %w", destFilename, srcFilename, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if conf.VerifyAfterCreate && !noVerify {
			if err := verifyFile(destFilename); err != nil {
				return fmt.Errorf("verification of %s failed: %w", destFilename, err)
			}
			logger.Debug("verified", zap.String("file", destFilename))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully created %s: volume %q, %d blocks\n",
			destFilename, header.DisplayName(), header.DataSize()/dc42.BlockSize)
		return nil
	},
}

// verifyFile re-reads a written image and checks it.
func verifyFile(filename string) error {
	file, err := openImage(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = convert.Verify(file, options())
	return err
}

func init() {
	createCmd.Flags().BoolVar(&noVerify, "no-verify", false, "do not re-read and verify the new image")
	rootCmd.AddCommand(createCmd)
}
