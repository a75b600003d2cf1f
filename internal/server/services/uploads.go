package services

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/imgbox/internal/common"
	"github.com/dmitrijs2005/imgbox/internal/filex"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// sniffLen is the prefix http.DetectContentType looks at.
const sniffLen = 512

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UploadService writes images straight into one directory on disk.
type UploadService struct {
	dir     string
	maxSize int64
	logger  logging.Logger
}

// NewUploadService creates dir if needed. maxSize bounds every single file.
func NewUploadService(dir string, maxSize int64, logger logging.Logger) (*UploadService, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &UploadService{dir: abs, maxSize: maxSize, logger: logger.With("module", "uploads")}, nil
}

// Dir returns the absolute upload directory.
func (s *UploadService) Dir() string { return s.dir }

// MaxSize returns the per-file limit in bytes.
func (s *UploadService) MaxSize() int64 { return s.maxSize }

// StorageName returns the on-disk name for a client filename: a random
// uuid prefix plus the sanitized base name.
func StorageName(original string) string {
	return fmt.Sprintf("%s-%s", uuid.NewString(), filex.SafeBaseName(original))
}

// Save streams r into a new file under the upload directory. It returns
// common.ErrorUnsupportedContent unless the content sniffs as jpeg or png and
// common.ErrorFileTooLarge once more than MaxSize bytes arrive; in both
// cases nothing is left on disk.
func (s *UploadService) Save(ctx context.Context, original string, r io.Reader) (*models.StoredFile, error) {
	ctx, span := tracer.Start(ctx, "UploadService.Save")
	defer span.End()

	br := bufio.NewReaderSize(r, sniffLen)
	contentType, err := sniff(br)
	if err != nil {
		span.SetStatus(codes.Error, "rejected")
		return nil, err
	}

	name := StorageName(original)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("%w: create file: %w", common.ErrorInternal, err)
	}

	n, err := io.Copy(f, io.LimitReader(br, s.maxSize+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		err = fmt.Errorf("%w: write file: %w", common.ErrorInternal, err)
	case n > s.maxSize:
		err = fmt.Errorf("%w: limit is %d bytes", common.ErrorFileTooLarge, s.maxSize)
	case closeErr != nil:
		err = fmt.Errorf("%w: close file: %w", common.ErrorInternal, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("file.name", name), attribute.Int64("file.size", n))
	s.logger.Info(ctx, "file stored", "name", name, "size", n, "content_type", contentType)

	return &models.StoredFile{
		OriginalName: original,
		Name:         name,
		Location:     path,
		Size:         n,
		ContentType:  contentType,
	}, nil
}

// Inspect reads an image fully into memory and describes it without storing
// it. The same type and size rules as Save apply.
func (s *UploadService) Inspect(ctx context.Context, r io.Reader) (*models.PostImage, error) {
	_, span := tracer.Start(ctx, "UploadService.Inspect")
	defer span.End()

	br := bufio.NewReaderSize(r, sniffLen)
	if _, err := sniff(br); err != nil {
		span.SetStatus(codes.Error, "rejected")
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(br, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", common.ErrorInternal, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", common.ErrorFileTooLarge, s.maxSize)
	}

	return &models.PostImage{FileSize: len(data), Data: hex.EncodeToString(data)}, nil
}

// sniff peeks at the head of br and checks it against the allow-list.
func sniff(br *bufio.Reader) (string, error) {
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read file: %w", common.ErrorInternal, err)
	}
	if len(head) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrorUnsupportedContent)
	}

	ct := http.DetectContentType(head)
	if !allowedImageTypes[ct] {
		return "", fmt.Errorf("%w: %s", common.ErrorUnsupportedContent, ct)
	}
	return ct, nil
}
