// Package main provides the npy command line tool.
package main

import (
	"github.com/born-ml/npy/cmd/npy/cmd"
)

func main() {
	cmd.Execute()
}
