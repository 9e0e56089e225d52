// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload mirrors a finished export directory to an S3-compatible
// object store. Upload is strictly best-effort: the export on disk is the
// deliverable and an unreachable object store never fails a run.
package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jeranaias/paperless-export/internal/config"
)

// Uploader pushes files to one bucket of an S3-compatible store.
type Uploader struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// New creates an uploader from the upload configuration.
func New(cfg config.UploadConfig, log *slog.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object-store client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With("component", "upload"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// UploadDir uploads every regular file under dir to prefix/<name>.
// Individual file failures are logged and counted, not fatal; the error
// return covers only walking the directory itself.
func (u *Uploader) UploadDir(ctx context.Context, dir, prefix string) (uploaded, failed int, err error) {
	if prefix == "" {
		prefix = filepath.Base(dir)
	}

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		objectName := path.Join(prefix, d.Name())
		if err := u.uploadFile(ctx, p, objectName); err != nil {
			u.log.Warn("upload failed", "file", d.Name(), "error", err)
			failed++
			return nil
		}
		uploaded++
		return nil
	})
	if walkErr != nil {
		return uploaded, failed, fmt.Errorf("failed to walk export directory: %w", walkErr)
	}
	return uploaded, failed, nil
}

func (u *Uploader) uploadFile(ctx context.Context, filePath, objectName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = u.client.PutObject(ctx, u.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}
