package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies a file revision by inode, size and modification time.
type FileInfo struct {
	ModTime int64  `json:"mod_time"`
	Size    int64  `json:"size"`
	Inode   uint64 `json:"inode"`
}

// GetFileInfo stats path. Only Unix-like systems expose an inode.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("no inode information for %s", path)
	}

	return &FileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}

// SameRevision reports whether two stats describe the same file contents.
func (fi *FileInfo) SameRevision(other *FileInfo) bool {
	if fi == nil || other == nil {
		return false
	}
	return fi.Inode == other.Inode && fi.Size == other.Size && fi.ModTime == other.ModTime
}
