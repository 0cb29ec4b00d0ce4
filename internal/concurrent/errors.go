package concurrent

import (
	"fmt"
	"strings"
)

// Blame failed for a single file.
type FileError struct {
	Path string
	Err  error
}

func (err *FileError) Error() string {
	return fmt.Sprintf("could not blame \"%s\": %v", err.Path, err.Err)
}

func (err *FileError) Unwrap() error {
	return err.Err
}

// One or more files could not be blamed. The tally returned alongside it
// covers every other file.
type AttributionError struct {
	Failures []*FileError
}

func (err *AttributionError) Error() string {
	return fmt.Sprintf(
		"failed to blame %d file(s): %s",
		len(err.Failures),
		strings.Join(err.Paths(), ", "),
	)
}

func (err *AttributionError) Unwrap() []error {
	errs := make([]error, 0, len(err.Failures))
	for _, f := range err.Failures {
		errs = append(errs, f)
	}

	return errs
}

// Paths of the files that failed, in input order.
func (err *AttributionError) Paths() []string {
	paths := make([]string, 0, len(err.Failures))
	for _, f := range err.Failures {
		paths = append(paths, f.Path)
	}

	return paths
}
