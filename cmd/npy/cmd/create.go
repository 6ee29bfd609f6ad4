package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/born-ml/npy"
)

func newCreateCmd() *cobra.Command {
	var (
		shape   []int
		scalar  bool
		dtype   string
		fortran bool
	)

	createCmd := &cobra.Command{
		Use:   "create <out.npy>",
		Short: "Write a .npy file from JSON values on stdin",
		Long: `Read a JSON array from stdin and write it as a .npy file.

Nested arrays are flattened row-major and give the shape unless --shape is set.
The element type is inferred unless --dtype is set.

Example:
  echo '[1, 2, 3, 4, 5, 6]' | npy create --shape 2,3 --dtype '<f4' out.npy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			values, nestedShape, err := readJSONValues(cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts := npy.WriteOptions{FortranOrder: fortran, Shape: nestedShape}
			switch {
			case scalar:
				opts.Shape = npy.Shape{}
			case cmd.Flags().Changed("shape"):
				opts.Shape = npy.Shape(shape)
			}
			if dtype != "" {
				descr, err := npy.ParseDescr(dtype)
				if err != nil {
					return err
				}
				opts.DType = descr.Type
				if descr.Order != npy.NotApplicable {
					opts.ByteOrder = descr.Order
				}
			}

			if err := npy.WriteFile(args[0], values, opts); err != nil {
				return err
			}
			a.logger.Info("wrote array", "path", args[0], "elements", len(values), "shape", opts.Shape.String())
			return nil
		},
	}

	createCmd.Flags().IntSliceVar(&shape, "shape", nil, "Array shape, e.g. 2,3")
	createCmd.Flags().BoolVar(&scalar, "scalar", false, "Write a zero-dimensional array")
	createCmd.Flags().StringVar(&dtype, "dtype", "", "Element descriptor, e.g. <f4, >i2, |b1, <U8")
	createCmd.Flags().BoolVar(&fortran, "fortran", false, "Values are in column-major order")
	createCmd.MarkFlagsMutuallyExclusive("shape", "scalar")

	return createCmd
}

// readJSONValues decodes a JSON array, flattening nested arrays row-major.
// The returned shape follows the nesting and is nil for a flat array.
func readJSONValues(r io.Reader) ([]any, npy.Shape, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	top, ok := root.([]any)
	if !ok {
		return nil, nil, errors.New("input must be a JSON array")
	}

	f := flattener{leafDepth: -1}
	if err := f.walk(top, 0); err != nil {
		return nil, nil, err
	}
	if len(f.shape) == 1 {
		return f.flat, nil, nil
	}
	return f.flat, f.shape, nil
}

// flattener collects the scalars of nested JSON arrays and checks they form a box.
type flattener struct {
	shape     npy.Shape
	flat      []any
	leafDepth int // Depth of the scalars; -1 until the first one is seen
}

func (f *flattener) walk(level []any, depth int) error {
	if depth == len(f.shape) {
		f.shape = append(f.shape, len(level))
	} else if f.shape[depth] != len(level) {
		return fmt.Errorf("ragged input: length %d at depth %d, want %d", len(level), depth, f.shape[depth])
	}

	for _, v := range level {
		if inner, ok := v.([]any); ok {
			if f.leafDepth != -1 && depth >= f.leafDepth {
				return errors.New("ragged input: mixed arrays and scalars")
			}
			if err := f.walk(inner, depth+1); err != nil {
				return err
			}
			continue
		}

		if f.leafDepth == -1 {
			f.leafDepth = depth
		}
		if depth != f.leafDepth || len(f.shape) != depth+1 {
			return errors.New("ragged input: mixed arrays and scalars")
		}
		s, err := jsonScalar(v)
		if err != nil {
			return err
		}
		f.flat = append(f.flat, s)
	}
	return nil
}

// jsonScalar maps a decoded JSON value to a Go scalar. Numbers without a
// fraction or exponent become int64, everything else float64.
func jsonScalar(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return f, nil
	case string, bool:
		return x, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %v", v)
	}
}
