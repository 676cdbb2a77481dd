package cmd

import (
	"fmt"
	"io"

	"github.com/sergev/diskcopy/dc42"
	"github.com/sergev/diskcopy/hfs"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Describe a Disk Copy 4.2 or raw HFS image",
	Long: `Describe a Disk Copy 4.2 or raw HFS image.
Format of floppy image is defined by extension:
    *.dc42, *.diskcopy or *.image  - Apple Disk Copy 4.2
    *.img, *.ima, *.dsk or *.hfs   - raw HFS volume
Other files are recognized by their contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		format := DetectImageFormat(args[0])
		if format == ImageFormatUnknown {
			format = SniffImageFormat(file, conf.Codes())
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s image\n", args[0], format)
		if format == ImageFormatDC42 {
			return describeDC42(out, file)
		}
		return describeHFS(out, file)
	},
}

func describeDC42(out io.Writer, r io.ReadSeeker) error {
	header, err := dc42.ReadHeader(r)
	if err != nil {
		return err
	}
	fmt.Fprint(out, header)
	total, err := header.ValidateWith(conf.Codes())
	if err != nil {
		fmt.Fprintf(out, "Header is invalid: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Total file size: %d bytes\n", total)
	return nil
}

func describeHFS(out io.Writer, r io.ReadSeeker) error {
	mdb, err := hfs.ReadMDB(r)
	if err != nil {
		return err
	}
	fmt.Fprint(out, mdb)
	blocks, err := mdb.Valid()
	if err != nil {
		fmt.Fprintf(out, "Master directory block is invalid: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Volume size: %d blocks\n", blocks)
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
