package serialization

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/born-ml/npy/internal/tensor"
)

// The header dictionary is a fixed micro-grammar, so each field is extracted
// with its own pattern instead of a general Python literal parser.
var (
	descrPattern      = regexp.MustCompile(`'descr'\s*:\s*'([^']+)'`)
	structuredPattern = regexp.MustCompile(`'descr'\s*:\s*\[`)
	fortranPattern    = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapePattern      = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ParseHeaderDict extracts descr, fortran_order and shape from header text.
// A missing fortran_order means False.
func ParseHeaderDict(text string) (Metadata, error) {
	var meta Metadata

	m := descrPattern.FindStringSubmatch(text)
	if m == nil {
		if loc := structuredPattern.FindStringIndex(text); loc != nil {
			return Metadata{}, &tensor.UnsupportedDtypeError{Descr: bracketed(text[loc[1]-1:])}
		}
		return Metadata{}, &MalformedHeaderError{Field: "descr", Header: text}
	}
	meta.Descr = m[1]

	if m := fortranPattern.FindStringSubmatch(text); m != nil {
		meta.FortranOrder = m[1] == "True"
	}

	m = shapePattern.FindStringSubmatch(text)
	if m == nil {
		return Metadata{}, &MalformedHeaderError{Field: "shape", Header: text}
	}
	shape, err := parseShapeTuple(m[1])
	if err != nil {
		return Metadata{}, &MalformedHeaderError{Field: "shape", Header: text}
	}
	meta.Shape = shape

	return meta, nil
}

// bracketed returns the leading [...] list of s, nested brackets included.
// An unterminated list yields the rest of s.
func bracketed(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return s
}

// parseShapeTuple parses the inside of a tuple such as "2, 3" or "5,".
// Empty tokens left by a trailing comma are discarded.
func parseShapeTuple(s string) (tensor.Shape, error) {
	shape := tensor.Shape{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		// Python 2 era writers emit long literals such as 3L.
		tok = strings.TrimSuffix(tok, "L")
		dim, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", tok, err)
		}
		if dim < 0 {
			return nil, fmt.Errorf("invalid dimension %d", dim)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}

// FormatHeaderDict renders metadata as a dictionary literal with the keys in
// the order descr, fortran_order, shape.
func FormatHeaderDict(meta Metadata) string {
	fortran := "False"
	if meta.FortranOrder {
		fortran = "True"
	}
	shape := meta.Shape
	if shape == nil {
		shape = tensor.Shape{}
	}
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", meta.Descr, fortran, shape)
}
