package serialization

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npy/internal/tensor"
)

// splitNpy returns the trimmed header dict and payload of an encoded buffer.
func splitNpy(t *testing.T, buf []byte) (string, []byte) {
	t.Helper()
	info, err := ReadHeader(buf)
	require.NoError(t, err)
	return headerText(buf[info.Offset:info.DataOffset()], info.Major), buf[info.DataOffset():]
}

func TestFormatHeaderLayout(t *testing.T) {
	buf, err := Format([]int{1, 2, 300}, WriteOptions{ByteOrder: tensor.LittleEndian})
	require.NoError(t, err)

	assert.Equal(t, MagicString, string(buf[:6]))
	assert.Equal(t, []byte{1, 0}, buf[6:8])

	headerLen := int(binary.LittleEndian.Uint16(buf[8:10]))
	assert.Zero(t, (prefixSizeV1+headerLen)%HeaderAlignment)
	assert.Equal(t, byte('\n'), buf[prefixSizeV1+headerLen-1])

	text := string(buf[prefixSizeV1 : prefixSizeV1+headerLen])
	dict := "{'descr': '<u2', 'fortran_order': False, 'shape': (3,), }"
	assert.True(t, strings.HasPrefix(text, dict), text)
	assert.Equal(t, strings.Repeat(" ", headerLen-len(dict)-1), text[len(dict):headerLen-1])

	assert.Equal(t, []byte{1, 0, 2, 0, 44, 1}, buf[prefixSizeV1+headerLen:])
}

func TestFormatInference(t *testing.T) {
	tests := []struct {
		name   string
		values any
		want   tensor.DataType
	}{
		{"small_unsigned", []int{1, 2, 255}, tensor.Uint8},
		{"unsigned_u2", []int{1, 2, 300}, tensor.Uint16},
		{"unsigned_u4", []int{70000}, tensor.Uint32},
		{"unsigned_u8", []int{1 << 40}, tensor.Uint64},
		{"all_zero", []int{0, 0}, tensor.Uint8},
		{"signed_i1", []int{-1, 2, 3}, tensor.Int8},
		{"signed_i1_bounds", []int{-128, 127}, tensor.Int8},
		{"signed_i2_high", []int{-1, 128}, tensor.Int16},
		{"signed_i2_low", []int{-129}, tensor.Int16},
		{"signed_i4", []int{-1, 40000}, tensor.Int32},
		{"signed_i8", []int{-1, 1 << 40}, tensor.Int64},
		{"plain_uint", []uint{7}, tensor.Uint8},
		{"floats_f4", []any{1.5, 2.0, -3.25}, tensor.Float32},
		{"floats_f8", []any{1.5, 1e300}, tensor.Float64},
		{"floats_inf", []any{math.Inf(1), 1.0}, tensor.Float32},
		{"integral_floats_stay_float", []any{1.0, 2.0}, tensor.Float32},
		{"int_and_float", []any{1, 2.5}, tensor.Float32},
		{"strings", []string{"ab", "c"}, tensor.Unicode(2)},
		{"rune_count", []string{"héllo"}, tensor.Unicode(5)},
		{"empty_strings", []string{"", ""}, tensor.Unicode(1)},
		{"bools", []any{true, false}, tensor.Bool},
		{"typed_int8", []int8{1, 2}, tensor.Int8},
		{"typed_uint64", []uint64{1, 2}, tensor.Uint64},
		{"typed_float64", []float64{1, 2}, tensor.Float64},
		{"typed_bool", []bool{true}, tensor.Bool},
		{"array", [3]int{1, 2, 3}, tensor.Uint8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Format(tt.values, WriteOptions{})
			require.NoError(t, err)

			arr, err := Parse(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, arr.DType())
		})
	}
}

func TestFormatInferenceErrors(t *testing.T) {
	tests := []struct {
		name   string
		values any
	}{
		{"empty", []int{}},
		{"empty_any", []any{}},
		{"mixed_string_number", []any{"a", 1}},
		{"mixed_bool_number", []any{true, 1}},
		{"not_a_slice", 42},
		{"nil", nil},
		{"nil_element", []any{1, nil}},
		{"nested", []any{[]int{1}}},
		{"out_of_range", []any{uint64(math.MaxUint64), -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.values, WriteOptions{})
			assert.ErrorIs(t, err, tensor.ErrUnsupportedDtype)
		})
	}
}

func TestFormatUnicodePayload(t *testing.T) {
	buf, err := Format([]string{"ab", "c"}, WriteOptions{ByteOrder: tensor.LittleEndian})
	require.NoError(t, err)

	dict, payload := splitNpy(t, buf)
	assert.Contains(t, dict, "'descr': '<U2'")
	assert.Equal(t, utf32(binary.LittleEndian, 2, "ab", "c"), payload)
}

func TestFormatByteOrder(t *testing.T) {
	values := []float32{1.5, -2}
	buf, err := Format(values, WriteOptions{ByteOrder: tensor.BigEndian})
	require.NoError(t, err)

	dict, payload := splitNpy(t, buf)
	assert.Contains(t, dict, "'descr': '>f4'")
	want := binary.BigEndian.AppendUint32(nil, math.Float32bits(1.5))
	want = binary.BigEndian.AppendUint32(want, math.Float32bits(-2))
	assert.Equal(t, want, payload)
	assert.Equal(t, []float32{1.5, -2}, values, "input must not be modified")

	arr, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, values, arr.Data)
}

func TestFormatByteSizedMarker(t *testing.T) {
	buf, err := Format([]uint8{1}, WriteOptions{ByteOrder: tensor.BigEndian})
	require.NoError(t, err)
	dict, _ := splitNpy(t, buf)
	assert.Contains(t, dict, "'descr': '|u1'")
}

func TestFormatInvalidByteOrder(t *testing.T) {
	_, err := Format([]uint8{1}, WriteOptions{ByteOrder: tensor.NotApplicable})
	assert.Error(t, err)
}

func TestFormatDTypeOverride(t *testing.T) {
	t.Run("float16", func(t *testing.T) {
		buf, err := Format([]float64{1, -2, 0.5}, WriteOptions{DType: tensor.Float16, ByteOrder: tensor.LittleEndian})
		require.NoError(t, err)

		dict, payload := splitNpy(t, buf)
		assert.Contains(t, dict, "'descr': '<f2'")
		assert.Equal(t, []byte{0x00, 0x3C, 0x00, 0xC0, 0x00, 0x38}, payload)
	})

	t.Run("float_to_int_truncates", func(t *testing.T) {
		buf, err := Format([]float32{1.7, -2.9}, WriteOptions{DType: tensor.Int16})
		require.NoError(t, err)
		arr, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, []int16{1, -2}, arr.Data)
	})

	t.Run("int_to_float", func(t *testing.T) {
		buf, err := Format([]int{1, 2}, WriteOptions{DType: tensor.Float64})
		require.NoError(t, err)
		arr, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, arr.Data)
	})

	t.Run("unicode_truncates", func(t *testing.T) {
		buf, err := Format([]string{"abc", "d"}, WriteOptions{DType: tensor.Unicode(1)})
		require.NoError(t, err)
		arr, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "d"}, arr.Data)
	})

	t.Run("bool_from_ints", func(t *testing.T) {
		buf, err := Format([]int{0, 3}, WriteOptions{DType: tensor.Bool})
		require.NoError(t, err)
		arr, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, []bool{false, true}, arr.Data)
	})

	t.Run("string_to_number", func(t *testing.T) {
		_, err := Format([]string{"1"}, WriteOptions{DType: tensor.Int32})
		assert.ErrorIs(t, err, tensor.ErrUnsupportedDtype)
	})

	t.Run("number_to_string", func(t *testing.T) {
		_, err := Format([]int{1}, WriteOptions{DType: tensor.Unicode(3)})
		assert.ErrorIs(t, err, tensor.ErrUnsupportedDtype)
	})
}

func TestFormatShape(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		buf, err := Format([]float64{4}, WriteOptions{Shape: tensor.Shape{}})
		require.NoError(t, err)
		dict, _ := splitNpy(t, buf)
		assert.Contains(t, dict, "'shape': ()")
	})

	t.Run("fortran", func(t *testing.T) {
		buf, err := Format([]int32{1, 4, 2, 5, 3, 6}, WriteOptions{Shape: tensor.Shape{2, 3}, FortranOrder: true})
		require.NoError(t, err)
		dict, _ := splitNpy(t, buf)
		assert.Contains(t, dict, "'fortran_order': True")
		assert.Contains(t, dict, "'shape': (2, 3)")
	})

	t.Run("mismatch", func(t *testing.T) {
		_, err := Format([]int{1, 2, 3}, WriteOptions{Shape: tensor.Shape{2, 2}})
		require.ErrorIs(t, err, tensor.ErrShapeMismatch)

		var mismatch *tensor.ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 4, mismatch.Expected)
		assert.Equal(t, 3, mismatch.Actual)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := Format([]int{1}, WriteOptions{Shape: tensor.Shape{-1}})
		assert.ErrorIs(t, err, tensor.ErrInvalidShape)
	})

	t.Run("empty_typed", func(t *testing.T) {
		buf, err := Format([]float32{}, WriteOptions{Shape: tensor.Shape{0, 2}})
		require.NoError(t, err)
		arr, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{0, 2}, arr.Shape)
		assert.Equal(t, 0, arr.Len())
	})
}

func TestWriteTo(t *testing.T) {
	var sb strings.Builder
	n, err := WriteTo(&sb, []uint8{1, 2}, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(sb.Len()), n)

	arr, err := Parse([]byte(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2}, arr.Data)
}
