package msgraph

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Drive is the part of Client used to move workbooks.
type Drive interface {
	Download(ctx context.Context, remotePath string) ([]byte, error)
	Upload(ctx context.Context, remotePath string, data []byte) (DriveItem, error)
}

// TransferResult describes one copied workbook.
type TransferResult struct {
	Remote string
	Local  string
	Bytes  int
	WebURL string
}

// RemotePath joins folder and name unless name is already absolute
// (starts with "/").
func RemotePath(folder, name string) string {
	if strings.HasPrefix(name, "/") || folder == "" {
		return "/" + strings.TrimLeft(name, "/")
	}
	return "/" + path.Join(strings.Trim(folder, "/"), name)
}

// Fetch downloads remote into local, replacing it atomically. An empty
// local keeps the remote file name in the working directory.
func Fetch(ctx context.Context, d Drive, remote, local string) (TransferResult, error) {
	if local == "" {
		local = path.Base(remote)
	}
	data, err := d.Download(ctx, remote)
	if err != nil {
		return TransferResult{}, fmt.Errorf("downloading %s: %w", remote, err)
	}

	dir := filepath.Dir(local)
	tmp, err := os.CreateTemp(dir, ".oro-download-*")
	if err != nil {
		return TransferResult{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return TransferResult{}, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return TransferResult{}, fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, local); err != nil {
		_ = os.Remove(tmpPath)
		return TransferResult{}, fmt.Errorf("saving %s: %w", local, err)
	}
	return TransferResult{Remote: remote, Local: local, Bytes: len(data)}, nil
}

// Publish uploads the local workbook to remote.
func Publish(ctx context.Context, d Drive, local, remote string) (TransferResult, error) {
	data, err := os.ReadFile(local)
	if err != nil {
		return TransferResult{}, fmt.Errorf("reading %s: %w", local, err)
	}
	item, err := d.Upload(ctx, remote, data)
	if err != nil {
		return TransferResult{}, fmt.Errorf("uploading %s: %w", remote, err)
	}
	return TransferResult{Remote: remote, Local: local, Bytes: len(data), WebURL: item.WebURL}, nil
}
