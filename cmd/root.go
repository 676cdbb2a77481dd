package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sergev/diskcopy/config"
	"github.com/sergev/diskcopy/convert"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	conf   *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "diskcopy",
	Short: "A CLI program which converts Apple Disk Copy 4.2 floppy images",
	Long: `The diskcopy tool converts between raw HFS floppy images and
uncompressed Apple Disk Copy 4.2 ("DC42") images, and checks DC42 images.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.Initialize(configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		level := conf.Level()
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, err = newLogger(level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.diskcopy)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug diagnostics")
}

// newLogger writes human-readable diagnostics to stderr.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.DisableCaller = true
	zc.EncoderConfig.TimeKey = ""
	return zc.Build()
}

// options returns conversion options from the loaded configuration.
func options() convert.Options {
	return convert.Options{
		Logger: logger,
		Codes:  conf.Codes(),
	}
}

// openImage opens a file for reading, naming it in the error.
func openImage(filename string) (*os.File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// writeImage runs write against a temporary file next to filename and
// renames it into place only when write succeeds, so a failed conversion
// leaves an existing file untouched.
func writeImage(filename string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".diskcopy-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode of %s: %w", filename, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	cobra.CheckErr(err)
}
