// Package serialization reads and writes the NumPy .npy array format.
//
// The .npy format stores a single homogeneous, rectangular array:
//
//	Format Structure:
//	  [6 bytes: Magic "\x93NUMPY"]
//	  [1 byte: Major version] [1 byte: Minor version]
//	  [2 bytes (v1) or 4 bytes (v2): Header length (LE)]
//	  [Header: Python dict literal, space padded, newline terminated]
//	  [Payload: raw element bytes in the declared dtype and layout order]
//
// The header dictionary has exactly three keys:
//
//	{'descr': '<f4', 'fortran_order': False, 'shape': (2, 3), }
//
// Files written by this package align the payload to HeaderAlignment (64) bytes,
// use version 1.0 whenever the header length fits 16 bits and 2.0 otherwise.
// Any header length is accepted on read.
//
// Example usage:
//
//	// Encode a slice, inferring the dtype
//	buf, err := serialization.Format([]int{1, 2, 300}, serialization.WriteOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode it back
//	arr, err := serialization.Parse(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(arr.DType(), arr.Shape) // uint16 (3,)
package serialization
