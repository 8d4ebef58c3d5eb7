package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-pixel-codecs/codecs"
)

// NewEncodeCmd compresses a raw frame file with one codec.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "compress a raw frame",
		Long:  "reads a raw sample buffer, compresses it with the selected codec and writes the encoded bitstream",
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
			raw, err := readInput(in)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			cctx.SetDecodedBuffer(raw)

			params := codecs.NewEncoderParameters()
			params.Lossy, _ = cmd.Flags().GetBool("lossy")
			if quality, _ := cmd.Flags().GetInt("quality"); quality > 0 {
				params.Quality = quality
			}
			if rate, _ := cmd.Flags().GetInt("rate"); rate > 0 {
				params.Rate = rate
			}
			if near, _ := cmd.Flags().GetInt("near"); near > 0 {
				params.AllowedLossyError = near
			}

			if err := codec.Encode(cctx, params); err != nil {
				return fmt.Errorf("encode failed: %w", err)
			}
			slog.Info("frame encoded", "codec", codec.Name,
				"raw", len(raw), "encoded", len(cctx.EncodedBuffer()))

			out, _ := cmd.Flags().GetString("out")
			return writeOutput(out, cctx.EncodedBuffer())
		},
	}
	addImageFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.Bool("lossy", false, "use the lossy variant of the codec")
	pf.Int("quality", 0, "lossy quality 1-100")
	pf.Int("rate", 0, "JPEG 2000 compression ratio")
	pf.Int("near", 0, "JPEG-LS allowed lossy error")
	return cmd
}
