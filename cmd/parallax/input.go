package main

import (
	"fmt"
	"io"
	"os"
)

// maxInputBytes bounds what the CLI reads from a file or stdin.
const maxInputBytes = 8 << 20

// readInput returns the code named by args: a file path, or stdin when args
// is empty or "-".
func readInput(stdin io.Reader, args []string) (string, error) {
	var r io.Reader = stdin
	name := "stdin"

	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxInputBytes {
		return "", fmt.Errorf("%s is larger than %d bytes", name, maxInputBytes)
	}
	return string(data), nil
}
