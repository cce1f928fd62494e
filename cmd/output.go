package cmd

import (
	"io"
	"os"

	"github.com/conneroisu/projectcard/internal/errors"
)

// writeFile creates path and fills it with write. The file is removed when
// write or the final close fails, so no partial output is left behind.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeInvalidPath, "cannot create output file", err).WithFile(path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIOError(errors.ErrCodeInvalidPath, "cannot write output file", cerr).WithFile(path)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}
