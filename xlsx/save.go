package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveError wraps a failure to write the workbook file.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("could not save %s (is it open in another program?): %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Save renders s with r into dir/name and returns the written path. The file
// is written to a temporary name first and renamed into place, so an existing
// pattern is never left half written.
func Save(s *PatternSheet, r Renderer, dir, name string) (string, error) {
	if r == nil {
		r = Unioffice{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &SaveError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", &SaveError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", &SaveError{Path: path, Err: err}
	}

	if err := r.Render(tmp, s); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", &SaveError{Path: path, Err: err}
	}
	return path, nil
}
