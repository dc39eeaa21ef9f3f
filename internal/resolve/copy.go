package resolve

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Materialize copies src over dst, creating dst's directory when needed.
// The content goes to a temporary file next to dst and is renamed into
// place, so dst is either the old file or the complete new one. Copying a
// file onto itself is a no-op.
func Materialize(src, dst string) (err error) {
	if same, err := sameFile(src, dst); err != nil {
		return err
	} else if same {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source config")
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return errors.Wrap(err, "create temporary config")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return errors.Wrapf(err, "copy %s", src)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errors.Wrap(err, "chmod temporary config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary config")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return errors.Wrapf(err, "replace %s", dst)
	}
	return nil
}

// --- helpers -----------------------------------------------------------------

func sameFile(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, errors.Wrap(err, "stat source config")
	}
	if sa.IsDir() {
		return false, errors.Errorf("source config %s is a directory", a)
	}
	sb, err := os.Stat(b)
	if err != nil {
		// dst not existing yet is the common case.
		return false, nil
	}
	return os.SameFile(sa, sb), nil
}
