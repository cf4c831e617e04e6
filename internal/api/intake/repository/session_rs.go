package intakeRepository

import (
	"context"
	"errors"
	"fmt"

	"TumorDetector/internal/entity"
	"TumorDetector/pkg/redis"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func imagesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:images", sessionID)
}

// SaveImages replaces the images held for the session and refreshes its TTL.
func (r *repository) SaveImages(ctx context.Context, sessionID string, images []entity.UploadedImage) error {
	payload, err := jsoniter.Marshal(images)
	if err != nil {
		return fmt.Errorf("encode session images: %w", err)
	}

	if err := r.store.Set(ctx, imagesKey(sessionID), payload, r.ttl); err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to save session images")
		return err
	}

	r.log.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"image_count": len(images),
	}).Debug("Session images saved")
	return nil
}

// GetImages returns an empty slice when the session has no images or has expired.
func (r *repository) GetImages(ctx context.Context, sessionID string) ([]entity.UploadedImage, error) {
	payload, err := r.store.Get(ctx, imagesKey(sessionID))
	if errors.Is(err, redis.ErrNil) {
		return []entity.UploadedImage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var images []entity.UploadedImage
	if err := jsoniter.Unmarshal(payload, &images); err != nil {
		return nil, fmt.Errorf("decode session images: %w", err)
	}
	if images == nil {
		images = []entity.UploadedImage{}
	}
	return images, nil
}

func (r *repository) ClearImages(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, imagesKey(sessionID))
}
