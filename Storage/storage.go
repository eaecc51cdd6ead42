package Storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps uploaded images at 10MB.
const MaxUploadSize = 10 << 20

// AllowedImageTypes is the upload MIME allow-list.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

var ErrTypeNotAllowed = errors.New("file type not allowed")
var ErrTooLarge = fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
var ErrInvalidKey = errors.New("invalid object key")

// validKey reports whether key is one the store could have issued: relative,
// already in canonical form, and confined to the key space.
func validKey(key string) bool {
	return key != "" &&
		key == path.Clean(key) &&
		!strings.HasPrefix(key, "/") &&
		key != ".." && !strings.HasPrefix(key, "../")
}

type ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Service is the object store behind chat image uploads. Keys follow the
// {profileID}/{sessionID}/{filename} convention; the first path segment is
// the owner and access checks match it against the caller.
type Service interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// ValidateImage enforces the size cap and the MIME allow-list before any
// bytes reach the store.
func ValidateImage(contentType string, size int64) error {
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	if !AllowedImageTypes[strings.ToLower(contentType)] {
		return ErrTypeNotAllowed
	}
	return nil
}

// NewFromEnv returns the S3-backed store when a bucket is configured and
// falls back to local disk otherwise.
func NewFromEnv() Service {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		log.Println("S3_BUCKET not set, storing uploads on local disk")
		return NewLocalStorage("./Uploads")
	}
	service, err := NewS3Storage(bucket)
	if err != nil {
		log.Printf("S3 setup failed, storing uploads on local disk: %v", err)
		return NewLocalStorage("./Uploads")
	}
	return service
}

// LocalStorage keeps uploads under a base directory, mirroring the object
// key layout.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

func (l *LocalStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	target := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", err
	}
	return "/Uploads/" + key, nil
}

func (l *LocalStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	dir := filepath.Join(l.basePath, filepath.FromSlash(prefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ObjectInfo{}, nil
		}
		return nil, err
	}

	var objects []ObjectInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		objects = append(objects, ObjectInfo{
			Key:  strings.TrimSuffix(prefix, "/") + "/" + entry.Name(),
			Size: info.Size(),
		})
	}
	return objects, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	target := filepath.Join(l.basePath, filepath.FromSlash(key))
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return errors.New("file not found")
	}
	return os.Remove(target)
}
