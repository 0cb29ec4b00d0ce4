package git

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// NOTE: We do NOT respect the git config here, we just assume the conventional
// path for this file.
func MailmapPath(gitRootPath string) string {
	return filepath.Join(gitRootPath, ".mailmap")
}

// Writes the contents of the repository's mailmap to h, if there is one.
//
// Blame and shortlog both apply the mailmap, so anything cached from them is
// only valid for the mailmap it was computed with.
func MailmapHash(gitRootPath string, h hash.Hash) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error hashing mailmap file: %w", err)
		}
	}()

	f, err := os.Open(MailmapPath(gitRootPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(h, f)
	return err
}
