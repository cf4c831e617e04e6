package intake

import "TumorDetector/internal/entity"

// FormField is the multipart field carrying the uploaded files, shared by the
// drag-and-drop zone and the file picker.
const FormField = "images"

type ImagesResponse struct {
	Images []entity.UploadedImage `json:"images"`
}
