// Package fileutil provides safe file move and copy operations.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SafeMove moves a file, creating destination directories and falling back
// to copy-then-remove when rename crosses filesystems.
func SafeMove(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.Rename(source, dest); err == nil {
		return nil
	}

	// Rename failed, likely EXDEV. Copy and remove instead.
	if err := SafeCopy(source, dest); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

// SafeCopy copies a file, creating destination directories and preserving
// the source's permissions and modification time.
func SafeCopy(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	os.Chtimes(dest, stat.ModTime(), stat.ModTime())
	return nil
}

// UniqueFilename returns a filename that does not yet exist in directory,
// appending _1, _2, ... before the extension when needed.
func UniqueFilename(directory, filename string) string {
	candidate := filepath.Join(directory, filename)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(filepath.Join(directory, name)); os.IsNotExist(err) {
			return name
		}
	}
}
