package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

const lockTTL = 30 * time.Second

// Explorer performs filesystem operations confined to a root directory.
type Explorer struct {
	root   string
	locker ports.Locker
	logger *slog.Logger
}

type Option func(*Explorer)

// WithLocker serializes mutating operations per path.
func WithLocker(l ports.Locker) Option {
	return func(e *Explorer) {
		e.locker = l
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Explorer) {
		e.logger = l
	}
}

// New creates an Explorer rooted at root, which must be an existing directory.
func New(root string, opts ...Option) (*Explorer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("explorer root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("explorer root %s is not a directory", abs)
	}

	e := &Explorer{root: abs, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Root returns the absolute root directory.
func (e *Explorer) Root() string {
	return e.root
}

// Resolve turns p (absolute, or relative to the root) into a clean absolute
// path and rejects anything outside the root.
func (e *Explorer) Resolve(p string) (string, error) {
	if p == "" {
		return e.root, nil
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(e.root, p)
	}
	p = filepath.Clean(p)

	// Follow symlinks for the existing part so a link cannot lead outside.
	check := p
	if real, err := filepath.EvalSymlinks(p); err == nil {
		check = real
	} else if real, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
		check = filepath.Join(real, filepath.Base(p))
	}

	if !e.inside(check) || !e.inside(p) {
		return "", fmt.Errorf("%w: %s", domain.ErrOutsideRoot, p)
	}
	return p, nil
}

func (e *Explorer) inside(p string) bool {
	rel, err := filepath.Rel(e.root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidName, name)
	}
	return nil
}

func (e *Explorer) lock(ctx context.Context, path string) (ports.UnlockFunc, error) {
	if e.locker == nil {
		return func(context.Context) error { return nil }, nil
	}
	return e.locker.Lock(ctx, path, lockTTL)
}

func (e *Explorer) unlock(ctx context.Context, unlock ports.UnlockFunc, path string) {
	if err := unlock(ctx); err != nil {
		e.logger.Warn("Failed to release lock", "path", path, "error", err)
	}
}

// Info describes the entry at path.
func (e *Explorer) Info(path string) (domain.FileInfo, error) {
	abs, err := e.Resolve(path)
	if err != nil {
		return domain.FileInfo{}, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return domain.FileInfo{}, wrapFS(err)
	}
	return fileInfo(abs, fi), nil
}

func fileInfo(path string, fi fs.FileInfo) domain.FileInfo {
	info := domain.FileInfo{
		Name:     fi.Name(),
		Path:     path,
		Size:     fi.Size(),
		Modified: fi.ModTime(),
		IsDir:    fi.IsDir(),
		Type:     domain.TypeDirectory,
	}
	if !fi.IsDir() {
		info.Extension = filepath.Ext(path)
		info.Type = typeByExtension(info.Extension)
	}
	return info
}

func typeByExtension(ext string) string {
	t := mime.TypeByExtension(ext)
	if t == "" {
		return domain.TypeUnknown
	}
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return t
}

func wrapFS(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %v", domain.ErrAlreadyExists, err)
	}
	return err
}

// List returns the entries of dir, directories first. A missing directory
// yields an empty list; unreadable entries are skipped.
func (e *Explorer) List(ctx context.Context, dir string) ([]domain.FileInfo, error) {
	abs, err := e.Resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.FileInfo{}, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("permission denied: cannot access %s: %w", abs, err)
		}
		return nil, fmt.Errorf("error listing directory: %w", err)
	}

	items := make([]domain.FileInfo, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(abs, entry.Name())
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		items = append(items, fileInfo(path, fi))
	}
	domain.SortEntries(items)
	return items, nil
}

// CreateFile writes content to dir/name, replacing an existing file.
func (e *Explorer) CreateFile(ctx context.Context, dir, name, content string) (domain.FileInfo, error) {
	return e.Upload(ctx, dir, name, strings.NewReader(content))
}

// Upload streams r into dir/name, replacing an existing file.
func (e *Explorer) Upload(ctx context.Context, dir, name string, r io.Reader) (domain.FileInfo, error) {
	if err := validName(name); err != nil {
		return domain.FileInfo{}, err
	}
	target, err := e.Resolve(filepath.Join(dir, name))
	if err != nil {
		return domain.FileInfo{}, err
	}

	unlock, err := e.lock(ctx, target)
	if err != nil {
		return domain.FileInfo{}, err
	}
	defer e.unlock(ctx, unlock, target)

	f, err := os.Create(target)
	if err != nil {
		return domain.FileInfo{}, wrapFS(err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return domain.FileInfo{}, fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return domain.FileInfo{}, err
	}
	return e.Info(target)
}

// CreateDir creates dir/name and any missing parents. Existing directories are fine.
func (e *Explorer) CreateDir(ctx context.Context, dir, name string) (domain.FileInfo, error) {
	if err := validName(name); err != nil {
		return domain.FileInfo{}, err
	}
	target, err := e.Resolve(filepath.Join(dir, name))
	if err != nil {
		return domain.FileInfo{}, err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return domain.FileInfo{}, wrapFS(err)
	}
	return e.Info(target)
}

// Delete removes a file, or a directory with everything below it.
func (e *Explorer) Delete(ctx context.Context, path string) error {
	target, err := e.Resolve(path)
	if err != nil {
		return err
	}
	if target == e.root {
		return fmt.Errorf("%w: refusing to delete the explorer root", domain.ErrInvalidName)
	}

	unlock, err := e.lock(ctx, target)
	if err != nil {
		return err
	}
	defer e.unlock(ctx, unlock, target)

	fi, err := os.Lstat(target)
	if err != nil {
		return wrapFS(err)
	}
	if fi.IsDir() {
		return os.RemoveAll(target)
	}
	return os.Remove(target)
}

// Rename gives path a new name within the same parent directory and returns the new path.
func (e *Explorer) Rename(ctx context.Context, path, newName string) (string, error) {
	if err := validName(newName); err != nil {
		return "", err
	}
	src, err := e.Resolve(path)
	if err != nil {
		return "", err
	}
	if filepath.Base(src) == newName {
		return "", fmt.Errorf("%w: name unchanged", domain.ErrInvalidName)
	}
	dst := filepath.Join(filepath.Dir(src), newName)

	unlock, err := e.lock(ctx, src)
	if err != nil {
		return "", err
	}
	defer e.unlock(ctx, unlock, src)

	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrAlreadyExists, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", wrapFS(err)
	}
	return dst, nil
}

// Copy copies src to dst. Files overwrite dst and keep their mode and
// modification time; directories are copied recursively and dst must not exist.
func (e *Explorer) Copy(ctx context.Context, src, dst string) error {
	from, err := e.Resolve(src)
	if err != nil {
		return err
	}
	to, err := e.Resolve(dst)
	if err != nil {
		return err
	}

	unlock, err := e.lock(ctx, to)
	if err != nil {
		return err
	}
	defer e.unlock(ctx, unlock, to)

	fi, err := os.Stat(from)
	if err != nil {
		return wrapFS(err)
	}
	// Opening the destination truncates it, so a file must never be copied
	// onto itself, whether by path or through a link.
	if from == to {
		return fmt.Errorf("%w: %s is the copy source", domain.ErrAlreadyExists, to)
	}
	if ti, err := os.Stat(to); err == nil && os.SameFile(fi, ti) {
		return fmt.Errorf("%w: %s is the copy source", domain.ErrAlreadyExists, to)
	}
	if !fi.IsDir() {
		return copyFile(from, to, fi)
	}

	if strings.HasPrefix(to, from+string(filepath.Separator)) {
		return fmt.Errorf("%w: cannot copy %s into itself", domain.ErrInvalidName, from)
	}
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, to)
	}
	return copyTree(ctx, from, to)
}

func copyTree(ctx context.Context, from, to string) error {
	return filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		target := filepath.Join(to, rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, fi.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, fi)
		}
	})
}

func copyFile(from, to string, fi fs.FileInfo) error {
	in, err := os.Open(from)
	if err != nil {
		return wrapFS(err)
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return wrapFS(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(to, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(to, fi.ModTime(), fi.ModTime())
}

// Open opens a regular file for download.
func (e *Explorer) Open(path string) (*os.File, domain.FileInfo, error) {
	info, err := e.Info(path)
	if err != nil {
		return nil, domain.FileInfo{}, err
	}
	if info.IsDir {
		return nil, domain.FileInfo{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidName, info.Path)
	}
	f, err := os.Open(info.Path)
	if err != nil {
		return nil, domain.FileInfo{}, wrapFS(err)
	}
	return f, info, nil
}
