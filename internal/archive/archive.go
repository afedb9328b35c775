// Package archive decompresses source archives and relocates them once read.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Gunzip decompresses gzPath ("x.gz") into "x" in the same directory and
// returns the decompressed path. An existing "x" is overwritten.
func Gunzip(gzPath string) (string, error) {
	if !strings.HasSuffix(gzPath, ".gz") {
		return "", fmt.Errorf("%s: not a .gz file", gzPath)
	}
	dst := strings.TrimSuffix(gzPath, ".gz")

	in, err := os.Open(gzPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = in.Close() }()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("%s: %w", gzPath, err)
	}
	defer func() { _ = zr.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, zr); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("%s: %w", gzPath, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

// Move relocates src into dstDir, keeping its base name, and returns the new
// path. dstDir is created if needed. A rename across file systems falls back
// to copy and remove.
func Move(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dstDir, filepath.Base(src))
	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	var le *os.LinkError
	if !errors.As(err, &le) {
		return "", err
	}
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return dst, os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	st, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
