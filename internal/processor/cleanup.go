package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// writeOutput writes data to dir/name through a temporary file so readers
// never see a partial result.
func (p *implProcessor) writeOutput(ctx context.Context, dir, name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}
	return dest, nil
}

// moveToArchived moves a processed source out of the inbox. An existing
// archive entry with the same name is kept and the new one gets a timestamp.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) (string, error) {
	dest := filepath.Join(p.cfg.Archived, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = fmt.Sprintf("%s_%s%s", strings.TrimSuffix(dest, ext), time.Now().Format("20060102-150405.000"), ext)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat archive entry: %w", err)
	}

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, dest)
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to archived: %w", err)
	}
	return dest, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
