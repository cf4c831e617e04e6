package predictionService

import (
	"context"

	"TumorDetector/internal/entity"
	"TumorDetector/pkg/notify"
	"TumorDetector/pkg/predictor"
	"github.com/sirupsen/logrus"
)

type IPredictionService interface {
	// Predict never fails: on any error it notifies n exactly once and returns an empty slice.
	Predict(ctx context.Context, images []entity.UploadedImage, n notify.Notifier) []entity.PredictionOutcome
}

type predictionService struct {
	log       *logrus.Logger
	predictor predictor.IPredictor
}

func NewPredictionService(log *logrus.Logger, p predictor.IPredictor) IPredictionService {
	return &predictionService{
		log:       log,
		predictor: p,
	}
}
