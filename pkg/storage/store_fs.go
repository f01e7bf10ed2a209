package storage

import (
	"context"
	"github.com/pkg/errors"
	"io"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	renameInterval = 100 * time.Millisecond
	renameTimeout  = 3 * time.Second
)

// FsClient reads and writes files below a root directory.
type FsClient struct {
	storePath string
}

var _ Storage = (*FsClient)(nil)

func NewFsClient(storePath string) *FsClient {
	return &FsClient{storePath: storePath}
}

func (fc *FsClient) Root() string {
	return fc.storePath
}

// ValidName reports whether name is a single path element that stays below its parent.
func ValidName(name string) bool {
	return len(name) > 0 && name != "." && name != ".." && !strings.ContainsAny(name, `/\`) && !filepath.IsAbs(name)
}

func (fc *FsClient) path(elem ...string) string {
	return filepath.Join(append([]string{fc.storePath}, elem...)...)
}

// EnsureDir creates the directory when it does not exist and reports whether it did.
func (fc *FsClient) EnsureDir(elem ...string) (bool, error) {
	p := fc.path(elem...)
	_, err := os.Stat(p)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	if err = os.MkdirAll(p, 0755); err != nil {
		return false, err
	}
	absPath, _ := filepath.Abs(p)
	klog.V(2).InfoS("Created", "path", absPath)
	return true, nil
}

// ListDirs returns the sorted names of the sub directories.
func (fc *FsClient) ListDirs(elem ...string) ([]string, error) {
	entries, err := os.ReadDir(fc.path(elem...))
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ListFiles returns the sorted names of the regular files whose extension is one of exts.
// Extensions are matched case-insensitively, an empty exts matches every file.
func (fc *FsClient) ListFiles(exts []string, elem ...string) ([]string, error) {
	entries, err := os.ReadDir(fc.path(elem...))
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), exts) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func (fc *FsClient) Get(elem ...string) ([]byte, error) {
	data, err := os.ReadFile(fc.path(elem...))
	if err != nil {
		klog.V(2).InfoS("Failed to read", "err", err)
		return nil, err
	}
	return data, nil
}

// WriteAtomic writes into a temporary file next to the target and renames it into place,
// so readers never observe a partially written file. dir is created when missing.
// Relative dirs are resolved against the store root.
func (fc *FsClient) WriteAtomic(dir, name string, write func(w io.Writer) error) (string, error) {
	if !filepath.IsAbs(dir) {
		dir = fc.path(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "create directory %s", dir)
	}
	target := filepath.Join(dir, name)

	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create temporary file")
	}
	tmp := f.Name()
	cleanup := func() {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			klog.V(2).InfoS("Failed to remove temporary file", "file", tmp, "err", err)
		}
	}

	if err = write(f); err != nil {
		_ = f.Close()
		cleanup()
		return "", err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		cleanup()
		return "", errors.Wrap(err, "sync temporary file")
	}
	if err = f.Close(); err != nil {
		cleanup()
		return "", errors.Wrap(err, "close temporary file")
	}

	if err = rename(tmp, target); err != nil {
		cleanup()
		return "", errors.Wrapf(err, "rename to %s", target)
	}
	return target, nil
}

// rename retries while the target is held open by another process.
func rename(from, to string) error {
	var lastErr error
	err := wait.PollUntilContextTimeout(context.Background(), renameInterval, renameTimeout, true, func(ctx context.Context) (bool, error) {
		lastErr = os.Rename(from, to)
		if lastErr == nil {
			return true, nil
		}
		if isEphemeralError(lastErr) {
			klog.V(4).InfoS("Target busy, retrying rename", "file", to, "err", lastErr)
			return false, nil
		}
		return false, lastErr
	})
	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}
