package cmd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/npy"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file|url>",
		Short: "Describe the header of a .npy file",
		Long: `Print the format version, descriptor, shape, layout order, element count,
header length and payload checksum of a .npy file. The payload is streamed
and hashed without being decoded.

Example:
  npy info weights.npy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			sum, err := a.codec.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("inspected source", "src", args[0], "remote", npy.IsURL(args[0]),
				"payload_bytes", sum.PayloadBytes, "elapsed", time.Since(start))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:       %d.%d\n", sum.Info.Major, sum.Info.Minor)
			fmt.Fprintf(out, "descr:         %s\n", sum.Descr)
			fmt.Fprintf(out, "dtype:         %s\n", sum.Descr.Type)
			fmt.Fprintf(out, "shape:         %s\n", sum.Metadata.Shape)
			fmt.Fprintf(out, "fortran_order: %t\n", sum.Metadata.FortranOrder)
			fmt.Fprintf(out, "elements:      %d\n", sum.Count)
			fmt.Fprintf(out, "header_bytes:  %d\n", sum.Info.DataOffset())
			fmt.Fprintf(out, "sha256:        %s\n", hex.EncodeToString(sum.Checksum[:]))
			return nil
		},
	}
}
