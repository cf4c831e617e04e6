package intakeRepository

import (
	"context"
	"time"

	"TumorDetector/internal/entity"
	"TumorDetector/pkg/redis"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	SaveImages(ctx context.Context, sessionID string, images []entity.UploadedImage) error
	GetImages(ctx context.Context, sessionID string) ([]entity.UploadedImage, error)
	ClearImages(ctx context.Context, sessionID string) error
}

type repository struct {
	store redis.IRedis
	ttl   time.Duration
	log   *logrus.Logger
}

func New(store redis.IRedis, ttl time.Duration, log *logrus.Logger) Repository {
	return &repository{
		store: store,
		ttl:   ttl,
		log:   log,
	}
}
