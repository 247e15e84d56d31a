package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file was given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe input")

// FileReader reads one document from the --file flag or from piped stdin.
// Decode defaults to JSON decoding into T.
type FileReader[T any] struct {
	Decode func([]byte) (T, error)
	Stdin  io.Reader

	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to input file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the --file value.
func (fr *FileReader[T]) Path() string {
	return fr.fileFlagValue
}

// SetPath overrides the --file value, e.g. from a positional argument.
func (fr *FileReader[T]) SetPath(path string) {
	fr.fileFlagValue = path
}

func (fr *FileReader[T]) Read() (T, error) {
	var input T

	data, err := fr.readAll()
	if err != nil {
		return input, err
	}

	decode := fr.Decode
	if decode == nil {
		decode = decodeJSON[T]
	}

	input, err = decode(data)
	if err != nil {
		return input, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}

func (fr *FileReader[T]) readAll() ([]byte, error) {
	if fr.fileFlagValue != "" {
		data, err := os.ReadFile(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return data, nil
	}

	if fr.Stdin != nil {
		return io.ReadAll(fr.Stdin)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNoInput
	}
	return io.ReadAll(os.Stdin)
}

func decodeJSON[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
