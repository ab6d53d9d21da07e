package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxInputBytes bounds text read from a file or stdin.
const MaxInputBytes = 1 << 20

// ReadInput returns the command text: the joined args if any, else the
// contents of file ("-" means stdin), else stdin when it is not a terminal.
func ReadInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var r io.Reader
	switch {
	case file == "-":
		r = stdin
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	case stdin != nil && !isTerminal(stdin):
		r = stdin
	default:
		return "", ErrNoInput
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", MaxInputBytes)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrNoInput
	}
	return text, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
