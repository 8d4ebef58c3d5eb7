// Package cmd implements the pixelcodec command line tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-pixel-codecs/codecs"
	"github.com/cocosip/go-pixel-codecs/internal/logging"
)

// NewRoot builds the root command and its subcommands.
func NewRoot(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixelcodec",
		Short: "transcode single DICOM pixel-data frames",
		Long:  "pixelcodec encodes and decodes single image frames between raw sample buffers and the encapsulated DICOM transfer syntaxes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFile, _ := cmd.Flags().GetString("log-file")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}
			if logFile != "" {
				slog.SetDefault(logging.FileLogger(logFile, level))
			} else {
				slog.SetDefault(logging.Logger(os.Stderr, level))
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(
		NewListCmd(ctx),
		NewEncodeCmd(ctx),
		NewDecodeCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "write logs to a rotated file instead of stderr")
	return cmd
}

// NewListCmd prints the registered codecs.
func NewListCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list the available codecs",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range codecs.List() {
				fmt.Printf("%-22s %s\n", c.Name, c.UID())
			}
		},
	}
}

// contextFromFlags builds a codec context from the shared image flags.
func contextFromFlags(cmd *cobra.Command) (*codecs.Context, error) {
	ctx := codecs.NewContext()
	ctx.Columns, _ = cmd.Flags().GetInt("columns")
	ctx.Rows, _ = cmd.Flags().GetInt("rows")
	ctx.BitsAllocated, _ = cmd.Flags().GetInt("bits-allocated")
	ctx.BitsStored, _ = cmd.Flags().GetInt("bits-stored")
	ctx.SamplesPerPixel, _ = cmd.Flags().GetInt("samples-per-pixel")

	if ctx.BitsStored == 0 {
		ctx.BitsStored = ctx.BitsAllocated
	}
	if signed, _ := cmd.Flags().GetBool("signed"); signed {
		ctx.PixelRepresentation = codecs.Signed
	}
	if planar, _ := cmd.Flags().GetBool("planar"); planar {
		ctx.PlanarConfiguration = codecs.Planar
	}
	if ctx.SamplesPerPixel == 3 {
		ctx.PhotometricInterpretation = codecs.Rgb
	} else {
		ctx.PhotometricInterpretation = codecs.Monochrome2
	}

	if ctx.Columns <= 0 || ctx.Rows <= 0 {
		return nil, fmt.Errorf("columns and rows are required")
	}
	ctx.OnMessage = func(m string) {
		slog.Debug("codec message", "context", ctx.ID(), "message", m)
	}
	return ctx, nil
}

func addImageFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.Int("columns", 0, "image width in samples")
	pf.Int("rows", 0, "image height in samples")
	pf.Int("bits-allocated", 8, "sample storage width in bits (8 or 16)")
	pf.Int("bits-stored", 0, "sample payload width in bits (defaults to bits-allocated)")
	pf.Int("samples-per-pixel", 1, "1 for monochrome, 3 for colour")
	pf.Bool("signed", false, "samples are signed")
	pf.Bool("planar", false, "raw buffer uses planar channel layout")
	pf.StringP("in", "i", "", "input file (- for stdin)")
	pf.StringP("out", "o", "", "output file (- for stdout)")
	pf.StringP("codec", "c", "", "codec name or transfer syntax UID")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
