package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var allowedWallpaperTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadURLResponse is returned for a direct-to-storage upload.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // reported back on confirm
}

type WallpaperService interface {
	RequestUpload(ctx context.Context, userID, contentType string) (*UploadURLResponse, error)
	Confirm(ctx context.Context, userID, objectKey string) error
	DownloadURL(ctx context.Context, userID string) (string, error)
	Remove(ctx context.Context, userID string) error
}

type wallpaperService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
}

// NewWallpaperService accepts a nil storage; every call then fails with
// ErrStorageDisabled.
func NewWallpaperService(userRepo repository.UserRepository, fileStorage storage.FileStorage, urlExpiry time.Duration) WallpaperService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &wallpaperService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
		urlExpiry:   urlExpiry,
	}
}

func wallpaperPrefix(userID string) string {
	return path.Join("wallpapers", userID) + "/"
}

func (s *wallpaperService) RequestUpload(ctx context.Context, userID, contentType string) (*UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedWallpaperTypes[contentType]
	if !ok {
		return nil, invalid("contentType", "must be one of image/jpeg, image/png, image/webp, image/gif")
	}

	objectKey := wallpaperPrefix(userID) + fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// Confirm makes an uploaded object the user's wallpaper and drops the
// previous one.
func (s *wallpaperService) Confirm(ctx context.Context, userID, objectKey string) error {
	if s.fileStorage == nil {
		return ErrStorageDisabled
	}
	cleaned := path.Clean(objectKey)
	if cleaned != objectKey || !strings.HasPrefix(objectKey, wallpaperPrefix(userID)) {
		return invalid("objectKey", "does not belong to this account")
	}
	if err := s.fileStorage.ObjectExists(ctx, objectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return invalid("objectKey", "no upload found for this key")
		}
		return fmt.Errorf("check upload: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := s.userRepo.SetWallpaperKey(ctx, userID, objectKey); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.WallpaperKey != "" && user.WallpaperKey != objectKey {
		s.deleteBestEffort(ctx, user.WallpaperKey)
	}
	return nil
}

func (s *wallpaperService) DownloadURL(ctx context.Context, userID string) (string, error) {
	if s.fileStorage == nil {
		return "", ErrStorageDisabled
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", notFound(err, ErrUserNotFound)
	}
	if user.WallpaperKey == "" {
		return "", ErrWallpaperNotFound
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.WallpaperKey, s.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("generate download url: %w", err)
	}
	return url, nil
}

func (s *wallpaperService) Remove(ctx context.Context, userID string) error {
	if s.fileStorage == nil {
		return ErrStorageDisabled
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.WallpaperKey == "" {
		return ErrWallpaperNotFound
	}
	if err := s.userRepo.SetWallpaperKey(ctx, userID, ""); err != nil {
		return err
	}
	s.deleteBestEffort(ctx, user.WallpaperKey)
	return nil
}

func (s *wallpaperService) deleteBestEffort(ctx context.Context, key string) {
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		log.Warnf("delete old wallpaper %s: %s", key, err)
	}
}
