package web

import (
	"fmt"

	"TumorDetector/internal/entity"
)

const (
	titleNoTumor     = "No Tumor Detected"
	titleNoDetection = "No Detection"
	notAvailable     = "N/A"
)

// ResultCard is the view model of one image and its first detection.
type ResultCard struct {
	FileName     string
	ImageSrc     string
	Title        string
	ClassName    string
	Description  string
	Score        string
	Progress     float64
	Tumor        bool
	HasDetection bool
}

// BuildCards zips images with outcomes by index. Images past the end of outcomes get no card.
func BuildCards(images []entity.UploadedImage, outcomes []entity.PredictionOutcome) []ResultCard {
	n := len(images)
	if len(outcomes) < n {
		n = len(outcomes)
	}

	cards := make([]ResultCard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, NewResultCard(images[i], outcomes[i]))
	}
	return cards
}

func NewResultCard(image entity.UploadedImage, outcome entity.PredictionOutcome) ResultCard {
	card := ResultCard{
		FileName: image.FileName,
		ImageSrc: image.Base64File,
		Score:    notAvailable,
	}

	det, ok := outcome.First()
	if !ok {
		card.Title = titleNoDetection
		return card
	}

	card.HasDetection = true
	card.ClassName = det.ClassID.Label()
	card.Tumor = det.ClassID.IsTumor()
	card.Description = det.ClassID.Description()
	card.Score = FormatConfidence(det.Confidence)
	card.Progress = progress(det.Confidence)

	if card.Tumor {
		card.Title = card.ClassName
	} else {
		card.Title = titleNoTumor
	}

	return card
}

// FormatConfidence renders a percentage with two decimals, or "N/A" when absent.
func FormatConfidence(confidence *float64) string {
	if confidence == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", *confidence)
}

func progress(confidence *float64) float64 {
	if confidence == nil {
		return 0
	}
	switch c := *confidence; {
	case c < 0:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}
