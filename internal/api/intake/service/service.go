package intakeService

import (
	"context"

	intakeRepository "TumorDetector/internal/api/intake/repository"
	"TumorDetector/internal/entity"
	"github.com/sirupsen/logrus"
)

type IIntakeService interface {
	Ingest(ctx context.Context, files []FileSource) ([]entity.UploadedImage, error)
	SaveSessionImages(ctx context.Context, sessionID string, images []entity.UploadedImage) error
	SessionImages(ctx context.Context, sessionID string) ([]entity.UploadedImage, error)
	ClearSessionImages(ctx context.Context, sessionID string) error
}

type intakeService struct {
	log        *logrus.Logger
	repository intakeRepository.Repository
}

func NewIntakeService(log *logrus.Logger, repo intakeRepository.Repository) IIntakeService {
	return &intakeService{
		log:        log,
		repository: repo,
	}
}
