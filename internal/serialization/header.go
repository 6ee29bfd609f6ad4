package serialization

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ReadHeader verifies the magic signature and locates the header text in buf.
func ReadHeader(buf []byte) (HeaderInfo, error) {
	if len(buf) < prefixSizeV1 {
		return HeaderInfo{}, formatErrorf("file too small: %d bytes (minimum %d bytes required)", len(buf), prefixSizeV1)
	}

	if string(buf[:MagicSize]) != MagicString {
		return HeaderInfo{}, formatErrorf("invalid magic bytes %q", buf[:MagicSize])
	}

	info := HeaderInfo{
		Major: buf[6],
		Minor: buf[7],
	}

	switch info.Major {
	case VersionV1:
		info.Length = int(binary.LittleEndian.Uint16(buf[8:10]))
		info.Offset = prefixSizeV1
	case VersionV2, VersionV3:
		if len(buf) < prefixSizeV2 {
			return HeaderInfo{}, formatErrorf("file too small for v2: %d bytes (minimum %d bytes required)", len(buf), prefixSizeV2)
		}
		length := binary.LittleEndian.Uint32(buf[8:12])
		if uint64(length) > uint64(len(buf)) {
			return HeaderInfo{}, formatErrorf("truncated header: length %d, file size %d", length, len(buf))
		}
		info.Length = int(length)
		info.Offset = prefixSizeV2
	default:
		return HeaderInfo{}, formatErrorf("unsupported format version %d.%d", info.Major, info.Minor)
	}

	if info.DataOffset() > len(buf) {
		return HeaderInfo{}, formatErrorf("truncated header: header ends at %d, file size %d", info.DataOffset(), len(buf))
	}

	return info, nil
}

// headerText decodes the header bytes and trims the padding.
// Version 3 headers are UTF-8, earlier versions Latin-1.
func headerText(raw []byte, major uint8) string {
	if major >= VersionV3 {
		return strings.TrimRight(string(raw), " \t\r\n\x00")
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return strings.TrimRight(sb.String(), " \t\r\n\x00")
}

// prefixSize returns the size of the fixed prefix for a major version.
func prefixSize(major uint8) int {
	if major >= VersionV2 {
		return prefixSizeV2
	}
	return prefixSizeV1
}

// writePrefix writes magic, version and header length into dst.
func writePrefix(dst []byte, major uint8, headerLen int) {
	copy(dst, MagicString)
	dst[6] = major
	dst[7] = 0
	if major >= VersionV2 {
		binary.LittleEndian.PutUint32(dst[8:12], uint32(headerLen)) //nolint:gosec // G115: bounded by MaxHeaderSize
		return
	}
	binary.LittleEndian.PutUint16(dst[8:10], uint16(headerLen)) //nolint:gosec // G115: checked by caller
}

// paddedHeader appends alignment spaces and the terminating newline to dict and
// picks the smallest version whose length field can hold the result.
func paddedHeader(dict string) (string, uint8, error) {
	for _, major := range []uint8{VersionV1, VersionV2} {
		unpadded := prefixSize(major) + len(dict) + 1
		pad := (HeaderAlignment - unpadded%HeaderAlignment) % HeaderAlignment
		text := dict + strings.Repeat(" ", pad) + "\n"
		if major == VersionV1 && len(text) > 0xFFFF {
			continue
		}
		if len(text) > MaxHeaderSize {
			break
		}
		return text, major, nil
	}
	return "", 0, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(dict))
}
