package entity

// UploadedImage is one user-selected file, encoded as a data URI at intake time.
type UploadedImage struct {
	FileName   string `json:"file_name" validate:"required"`
	Base64File string `json:"base64_file" validate:"required,startswith=data:"`
}

// Base64Files returns the data URIs of images in order.
func Base64Files(images []UploadedImage) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.Base64File
	}
	return out
}
