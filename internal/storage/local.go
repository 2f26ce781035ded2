package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// FileStore keeps campaign reference files on the local disk under root and
// serves them below baseURL.
type FileStore struct {
	root    string
	baseURL string
}

func NewFileStore(root, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory served as static media.
func (s *FileStore) Root() string { return s.root }

// CampaignFileKey builds a collision-free key for an uploaded reference file,
// keeping the original extension.
func CampaignFileKey(campaignID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("campaign_files", campaignID.String(), uuid.NewString()+ext)
}

// Save writes r under key and returns the sniffed content type. A partially
// written file is removed on error.
func (s *FileStore) Save(ctx context.Context, key string, r io.Reader) (Object, error) {
	full, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, err
	}

	br := bufio.NewReaderSize(r, 3072)
	head, _ := br.Peek(3072)
	mtype := mimetype.Detect(head)

	f, err := os.Create(full)
	if err != nil {
		return Object{}, err
	}
	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: br})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	return Object{Key: key, Size: n, ContentType: mtype.String()}, nil
}

// Remove deletes the object; a missing object is not an error.
func (s *FileStore) Remove(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) URL(key string) string {
	return s.baseURL + "/" + key
}

func (s *FileStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
