package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-pixel-codecs/codecs"
)

// NewDecodeCmd expands an encoded frame file back to raw samples.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "expand an encoded frame",
		Long:  "reads an encoded bitstream, decodes it with the selected codec and writes the raw sample buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("codec")
			codec, err := codecs.Get(name)
			if err != nil {
				return fmt.Errorf("codec %q: %w", name, err)
			}

			cctx, err := contextFromFlags(cmd)
			if err != nil {
				return err
			}

			in, _ := cmd.Flags().GetString("in")
			encoded, err := readInput(in)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			cctx.SetEncodedBuffer(encoded)

			params := codecs.NewDecoderParameters()
			params.ConvertColorspaceToRGB, _ = cmd.Flags().GetBool("convert-rgb")

			if err := codec.Decode(cctx, params); err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}
			slog.Info("frame decoded", "codec", codec.Name,
				"encoded", len(encoded), "raw", len(cctx.DecodedBuffer()))

			out, _ := cmd.Flags().GetString("out")
			return writeOutput(out, cctx.DecodedBuffer())
		},
	}
	addImageFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.Bool("convert-rgb", false, "convert JPEG colour output to RGB")
	return cmd
}
