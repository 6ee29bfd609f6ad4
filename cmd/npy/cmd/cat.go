package cmd

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/born-ml/npy"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file|url>",
		Short: "Print the values of a .npy file as JSON",
		Long: `Print the values of a .npy file as nested JSON arrays, shaped by the
header's shape and layout order.

Example:
  npy cat https://example.com/labels.npy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			buf, err := a.fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			arr, err := a.codec.Parse(buf)
			if err != nil {
				return err
			}
			a.logger.Debug("decoded array", "dtype", arr.DType().String(), "shape", arr.Shape.String())

			nested, err := jsonView(arr).Nested()
			if err != nil {
				return err
			}
			data, err := marshalValues(finiteView(nested), a.config.Indent)
			if err != nil {
				return fmt.Errorf("failed to encode values: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// marshalValues renders v as JSON, on a single line when indent is empty.
func marshalValues(v any, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", indent)
}

// jsonView returns arr with data that encoding/json renders as numbers.
// []uint8 would otherwise be encoded as a base64 string.
func jsonView(arr *npy.Array) *npy.Array {
	u8, ok := arr.Data.([]uint8)
	if !ok {
		return arr
	}
	wide := make([]uint16, len(u8))
	for i, v := range u8 {
		wide[i] = uint16(v)
	}
	view := *arr
	view.Data = wide
	return &view
}

// finiteView replaces NaN and infinite floats in v with the strings "NaN",
// "Infinity" and "-Infinity", which encoding/json cannot otherwise represent.
// Levels holding only finite values are returned unchanged.
func finiteView(v any) any {
	switch v := v.(type) {
	case []any:
		for i, e := range v {
			v[i] = finiteView(e)
		}
		return v
	case []float32:
		return floatsView(v)
	case []float64:
		return floatsView(v)
	case float32:
		return floatView(float64(v), v)
	case float64:
		return floatView(v, v)
	default:
		return v
	}
}

func floatsView[T float32 | float64](vs []T) any {
	finite := true
	for _, f := range vs {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			finite = false
			break
		}
	}
	if finite {
		return vs
	}
	out := make([]any, len(vs))
	for i, f := range vs {
		out[i] = floatView(float64(f), f)
	}
	return out
}

// floatView returns the JSON stand-in for f, or orig when f is finite.
func floatView(f float64, orig any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return orig
	}
}
