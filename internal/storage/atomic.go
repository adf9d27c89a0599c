package storage

import (
	"fmt"
	"os"
)

const (
	BackupSuffix = ".bak"
	TempSuffix   = ".tmp"
)

// WriteAtomic replaces the file at path with content. The previous content
// is first copied to path+".bak"; the new content is written to path+".tmp"
// and renamed over path, so path always holds either the old or the new
// content in full.
func WriteAtomic(path string, content []byte) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	perm := info.Mode().Perm()

	backup, err := copyFile(path, path+BackupSuffix, perm)
	if err != nil {
		return "", err
	}

	tmp := path + TempSuffix
	if err := writeSynced(tmp, content, perm); err != nil {
		os.Remove(tmp)
		return backup, fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return backup, fmt.Errorf("replace %s: %w", path, err)
	}

	return backup, nil
}

func copyFile(src, dst string, perm os.FileMode) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if err := writeSynced(dst, data, perm); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return dst, nil
}

func writeSynced(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
