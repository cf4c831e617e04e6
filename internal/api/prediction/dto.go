package prediction

import "TumorDetector/internal/entity"

const (
	MsgFormatIncorrect = "Error: Prediction response format is incorrect."
	MsgPredictFailed   = "Prediction failed. Please try again."
	MsgNoImages        = "No images to predict."
)

// PredictRequest falls back to the session images when Images is empty.
type PredictRequest struct {
	Images []entity.UploadedImage `json:"images" validate:"omitempty,max=64,dive"`
}

type PredictResponse struct {
	Results       []entity.PredictionOutcome `json:"results"`
	Notifications []string                   `json:"notifications,omitempty"`
}
