package zonefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Mode is applied to every written zone file. No write bits: the files are
// generated and must not be edited by hand.
const Mode fs.FileMode = 0o444

// Outcome tells what Save did.
type Outcome int

const (
	// Unchanged means the file already held the rendered content.
	Unchanged Outcome = iota
	// Written means the file was created or replaced.
	Written
)

func (o Outcome) String() string {
	if o == Written {
		return "written"
	}
	return "unchanged"
}

// FileError is a failure to read or write the file of one zone.
type FileError struct {
	Zone string
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("zone %s: failed to %s %s: %v", e.Zone, e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Save writes content to the file of zone in dir unless the file already
// holds exactly that content. The new file replaces the old one atomically.
func Save(dir, zone, content string) (Outcome, error) {
	path := Path(dir, zone)

	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		if string(previous) == content {
			return Unchanged, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Unchanged, &FileError{Zone: zone, Path: path, Op: "read existing zone file", Err: err}
	}

	if op, err := writeAtomic(path, []byte(content), Mode); err != nil {
		return Unchanged, &FileError{Zone: zone, Path: path, Op: op, Err: err}
	}
	return Written, nil
}

// writeAtomic writes data to a temporary sibling of path and renames it into
// place, so readers see either the old or the new file. On failure it
// returns the step that failed.
func writeAtomic(path string, data []byte, mode fs.FileMode) (string, error) {
	dir := filepath.Dir(path)

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "create temporary file for", err
	}
	tmp := f.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "write temporary file for", err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return "set mode of temporary file for", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "sync temporary file for", err
	}
	if err := f.Close(); err != nil {
		return "close temporary file for", err
	}

	if err := os.Rename(tmp, path); err != nil {
		return "rename temporary file to", err
	}
	renamed = true

	if err := syncDir(dir); err != nil {
		return "sync directory of", err
	}
	return "", nil
}
