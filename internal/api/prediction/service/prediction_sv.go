package predictionService

import (
	"context"
	"errors"

	"TumorDetector/internal/api/prediction"
	"TumorDetector/internal/entity"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/notify"
	"TumorDetector/pkg/predictor"
	"github.com/sirupsen/logrus"
)

func (s *predictionService) Predict(ctx context.Context, images []entity.UploadedImage, n notify.Notifier) []entity.PredictionOutcome {
	if n == nil {
		n = notify.Discard
	}
	requestID := contextPkg.GetRequestID(ctx)

	if len(images) == 0 {
		n.Notify(ctx, prediction.MsgNoImages)
		return []entity.PredictionOutcome{}
	}

	imageData := entity.Base64Files(images)

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"image_count": len(imageData),
	}).Info("Prediction started")

	resp, err := s.predictor.Predict(ctx, imageData)
	if err != nil {
		message := prediction.MsgPredictFailed
		if errors.Is(err, predictor.ErrMalformedResponse) {
			message = prediction.MsgFormatIncorrect
		}

		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"image_count": len(imageData),
			"error":       err.Error(),
		}).Error("Prediction failed")

		n.Notify(ctx, message)
		return []entity.PredictionOutcome{}
	}

	if len(resp.Results) != len(imageData) {
		s.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"image_count":  len(imageData),
			"result_count": len(resp.Results),
		}).Warn("Result count does not match image count")
	}

	outcomes := alignOutcomes(imageData, resp.Results)

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"image_count": len(outcomes),
	}).Info("Prediction completed")

	return outcomes
}

// alignOutcomes maps results[i] onto images[i]. Absent results or detections
// become an empty detection list, extra results are dropped.
func alignOutcomes(imageData []string, results []*predictor.Result) []entity.PredictionOutcome {
	outcomes := make([]entity.PredictionOutcome, len(imageData))

	for i, image := range imageData {
		outcomes[i] = entity.PredictionOutcome{
			Image:      image,
			Detections: []entity.DetectionResult{},
		}

		if i >= len(results) || results[i] == nil {
			continue
		}

		for _, det := range results[i].Detections {
			outcomes[i].Detections = append(outcomes[i].Detections, entity.DetectionResult{
				ClassID:    entity.TumorClass(det.ClassID),
				Confidence: det.Confidence,
			})
		}
	}

	return outcomes
}
