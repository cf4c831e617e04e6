package entity

// TumorClass is the class code returned by the prediction service.
type TumorClass int

const (
	Glioma     TumorClass = 0
	Meningioma TumorClass = 1
	NoTumor    TumorClass = 2
	Pituitary  TumorClass = 3
)

// Label returns the human label for c, or "Unknown" for codes outside the enumeration.
func (c TumorClass) Label() string {
	switch c {
	case Glioma:
		return "Glioma"
	case Meningioma:
		return "Meningioma"
	case NoTumor:
		return "No Tumor"
	case Pituitary:
		return "Pituitary"
	default:
		return "Unknown"
	}
}

// IsTumor is false only for NoTumor. Unknown codes count as positive.
func (c TumorClass) IsTumor() bool {
	return c != NoTumor
}

func (c TumorClass) Description() string {
	switch c {
	case Glioma, Meningioma, Pituitary:
		return "According to our prediction, this appears to be a " + c.Label() +
			" tumor type, which may require further analysis."
	case NoTumor:
		return "According to our prediction, no tumor was detected in the image."
	default:
		return ""
	}
}

// DetectionResult is one classification attached to a submitted image.
// Confidence is a percentage in [0,100]; nil means the service omitted it.
type DetectionResult struct {
	ClassID    TumorClass `json:"classId"`
	Confidence *float64   `json:"confidence"`
}

// PredictionOutcome holds the detections for the image at the same index of the request.
type PredictionOutcome struct {
	Image      string            `json:"image"`
	Detections []DetectionResult `json:"detections"`
}

// First returns the detection shown to the user, if any.
func (o PredictionOutcome) First() (DetectionResult, bool) {
	if len(o.Detections) == 0 {
		return DetectionResult{}, false
	}
	return o.Detections[0], true
}
