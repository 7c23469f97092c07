package restyutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "ssl-dataset/dev/env"
	"strings"
)

// FilesystemOutput writes each message to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput empties (or creates) `dir`, which may start with
// the <dev_state> prefix. Outside of a workspace <dev_state> falls back to
// <tmp>/ssl-dataset.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	resolved, err := devenv.ResolvePath(dir)
	if errors.Is(err, os.ErrNotExist) {
		subpath := strings.TrimLeft(strings.TrimPrefix(dir, devenv.StatePrefix), `/\`)
		resolved = filepath.Join(os.TempDir(), "ssl-dataset", subpath)
		slog.Warn("not inside the ssl-dataset workspace, dumping to the temp dir", "dir", resolved)
	} else if err != nil {
		return FilesystemOutput{}, err
	}
	dir = resolved
	err = os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	name := fmt.Sprintf("%s.txt", id)
	err := os.WriteFile(filepath.Join(o.directory, name), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
