// Package storage archives raw upload files to a local directory or an
// object store.
package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"moleculehub/internal/config"
	"moleculehub/internal/domain"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds the archive key for an upload: prefix/sessionID/name,
// with the file name reduced to a safe character set.
func ObjectKey(prefix, sessionID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "upload"
	}
	return path.Join(strings.Trim(prefix, "/"), sessionID, name)
}

// NewArchiver returns the archiver selected by cfg.Backend, or nil for the
// "none" backend.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig) (domain.UploadArchiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveLocal:
		return NewLocalArchiver(cfg.Dir)
	case config.ArchiveS3:
		return NewS3Archiver(cfg)
	case config.ArchiveGCS:
		return NewGCSArchiver(ctx, cfg.GCSKeyFile, cfg.GCSBucket)
	case config.ArchiveAzure:
		return NewAzureArchiver(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
	default:
		return nil, fmt.Errorf("unsupported archive backend %q", cfg.Backend)
	}
}
