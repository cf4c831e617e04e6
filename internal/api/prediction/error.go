package prediction

import (
	"TumorDetector/pkg/response"
	"net/http"
)

var (
	ErrNoImages         = response.NewError(http.StatusBadRequest, "no images to predict")
	ErrPredictionFailed = response.NewError(http.StatusBadGateway, "prediction failed")
)
