package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
)

// UploadDir copies the local directory tree to remoteDir over SFTP.
// Whatever existed at remoteDir is removed first so no stale files from a
// previous upload survive. It returns the number of files copied.
func (c *Client) UploadDir(ctx context.Context, localDir, remoteDir string) (int, error) {
	info, err := os.Stat(localDir)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", localDir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", localDir)
	}
	if remoteDir == "" || path.Clean(remoteDir) == "/" || path.Clean(remoteDir) == "." {
		return 0, fmt.Errorf("refusing to replace remote directory %q", remoteDir)
	}

	conn, err := c.connection(ctx)
	if err != nil {
		return 0, err
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to create sftp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.RemoveAll(remoteDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("failed to remove %s on %s: %w", remoteDir, c.config.Host, err)
	}

	files := 0
	err = filepath.WalkDir(localDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		target := path.Join(remoteDir, filepath.ToSlash(rel))

		switch {
		case d.IsDir():
			if err := client.MkdirAll(target); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			return nil
		case d.Type().IsRegular():
			if err := uploadFile(client, p, target); err != nil {
				return err
			}
			files++
			c.config.Log.V(2).Info("uploaded file", "path", target)
			return nil
		default:
			// Symlinks, sockets and devices are not copied.
			c.config.Log.V(1).Info("skipping non-regular file", "path", p)
			return nil
		}
	})
	if err != nil {
		return files, fmt.Errorf("failed to upload %s to %s:%s: %w", localDir, c.config.Host, remoteDir, err)
	}

	return files, nil
}

func uploadFile(client *sftp.Client, localPath, remotePath string) error {
	// #nosec G304
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to write %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", remotePath, err)
	}

	if err := client.Chmod(remotePath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", remotePath, err)
	}
	return nil
}
