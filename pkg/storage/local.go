// Package storage keeps uploaded images on local disk and serves them back.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/multierr"

	"github.com/shaheen-amjed/shodix-api/pkg/config"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

const (
	FolderStores   = "stores"
	FolderProducts = "products"

	sniffLen = 3072
)

// Upload is an image received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}

// LocalStore writes images below root and exposes them under publicPrefix.
type LocalStore struct {
	root         string
	publicPrefix string
	maxBytes     int64
	logg         *logger.Logger
	now          func() time.Time
}

func NewLocal(cfg config.MediaConfig, logg *logger.Logger) (*LocalStore, error) {
	root := strings.TrimSpace(cfg.UploadDir)
	if root == "" {
		return nil, errors.New("upload dir is required")
	}
	for _, folder := range []string{FolderStores, FolderProducts} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("create upload folder %s: %w", folder, err)
		}
	}
	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	return &LocalStore{
		root:         root,
		publicPrefix: prefix,
		maxBytes:     cfg.MaxUploadBytes(),
		logg:         logg,
		now:          time.Now,
	}, nil
}

// PublicPrefix is the URL path the stored files are served under.
func (s *LocalStore) PublicPrefix() string {
	return s.publicPrefix
}

// Save validates upload as an image within the size limit and stores it in folder.
// It returns the public path of the new file.
func (s *LocalStore) Save(ctx context.Context, folder string, upload Upload) (string, error) {
	if folder != FolderStores && folder != FolderProducts {
		return "", fmt.Errorf("unknown upload folder %q", folder)
	}
	if upload.Content == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image")
	}
	if int64(len(data)) > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are allowed").
			WithDetails(map[string]string{"content_type": mtype.String()})
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixNano(), sanitizeFilename(upload.Filename, mtype.Extension()))
	target := filepath.Join(s.root, folder, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write image")
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"file": target, "bytes": len(data)}), "storage.saved")
	}
	return path.Join(s.publicPrefix, folder, name), nil
}

// Delete removes a previously saved file. Missing files and empty paths are ignored.
func (s *LocalStore) Delete(ctx context.Context, publicPath string) error {
	target, ok := s.resolve(publicPath)
	if !ok {
		return nil
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", target, err)
	}
	return nil
}

// Replace stores upload, runs commit with the new path and only then removes
// oldPath. When commit fails the new file is removed and the old one is kept.
func (s *LocalStore) Replace(ctx context.Context, folder string, upload Upload, oldPath *string, commit func(newPath string) error) (string, error) {
	newPath, err := s.Save(ctx, folder, upload)
	if err != nil {
		return "", err
	}

	if err := commit(newPath); err != nil {
		return "", multierr.Append(err, s.Delete(ctx, newPath))
	}

	if oldPath != nil && *oldPath != "" && *oldPath != newPath {
		if err := s.Delete(ctx, *oldPath); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "file", *oldPath), "storage.old_image_not_removed")
		}
	}
	return newPath, nil
}

// Handler serves stored files; mount it under PublicPrefix.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.publicPrefix, http.FileServer(noListingFS{http.Dir(s.root)}))
}

func (s *LocalStore) resolve(publicPath string) (string, bool) {
	if publicPath == "" || !strings.HasPrefix(publicPath, s.publicPrefix+"/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(publicPath, s.publicPrefix))
	if strings.Contains(rel, "..") {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), true
}

func sanitizeFilename(name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b bytes.Buffer
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= 48 {
			break
		}
	}
	if b.Len() == 0 {
		b.WriteString("image")
	}
	return b.String() + ext
}

// noListingFS hides directory indexes.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
