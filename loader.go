package chip8

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

var ErrEmptyProgram = errors.New("the program is empty")

// ReadProgram reads a program image from disk
func ReadProgram(path string) ([]byte, error) {
	program, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading program %q", path)
	}
	if len(program) == 0 {
		return nil, errors.Wrapf(ErrEmptyProgram, "reading program %q", path)
	}

	if len(program) > MaxProgramSize {
		slog.Warn("Program does not fit into memory, it will be truncated",
			slog.String("path", path),
			slog.Int("size", len(program)),
			slog.Int("max", MaxProgramSize))
	}

	return program, nil
}
