package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/roamly/roamly/pkg/types"
)

// MaxNameAttempts bounds the numeric suffixes tried for a free file name.
const MaxNameAttempts = 10000

// SanitizeFolder normalizes an upload folder and rejects any path that
// would leave the library root.
func SanitizeFolder(folder string) (string, error) {
	folder = strings.Trim(CleanRelative(strings.TrimSpace(folder)), "/")
	if folder == "" {
		return "", nil
	}
	var parts []string
	for _, seg := range strings.Split(folder, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %s", types.ErrPathEscape, folder)
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/"), nil
}

// SanitizeName rejects file names that carry directory components.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid file name %q", types.ErrPathEscape, name)
	}
	return name, nil
}

// UniqueRelPath returns folder/name, or folder/base_N.ext for the smallest
// N that is not taken.
func UniqueRelPath(ctx context.Context, b Backend, folder, name string) (string, error) {
	candidate := path.Join(folder, name)
	exists, err := b.Exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; i < MaxNameAttempts; i++ {
		candidate = path.Join(folder, base+"_"+strconv.Itoa(i)+ext)
		exists, err := b.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", types.ErrTooManyCollisions, path.Join(folder, name))
}

// SaveUpload writes r into folder under a collision-free variant of name
// and returns the library-relative path. Nothing is written when the
// folder or name would escape the root.
func SaveUpload(ctx context.Context, b Backend, folder, name string, r io.Reader) (string, error) {
	folder, err := SanitizeFolder(folder)
	if err != nil {
		return "", err
	}
	name, err = SanitizeName(name)
	if err != nil {
		return "", err
	}
	if !IsImage(name) {
		return "", fmt.Errorf("unsupported image type: %s", name)
	}
	rel, err := UniqueRelPath(ctx, b, folder, name)
	if err != nil {
		return "", err
	}
	if _, err := b.RelPath(b.FilePath(rel)); err != nil {
		return "", err
	}
	if err := b.Put(ctx, rel, r); err != nil {
		return "", fmt.Errorf("saving %s: %w", rel, err)
	}
	return rel, nil
}
