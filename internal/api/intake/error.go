package intake

import (
	"TumorDetector/pkg/response"
	"net/http"
)

var (
	ErrNoFiles        = response.NewError(http.StatusBadRequest, "no files uploaded")
	ErrInvalidForm    = response.NewError(http.StatusBadRequest, "invalid multipart form")
	ErrReadFile       = response.NewError(http.StatusUnprocessableEntity, "failed to read uploaded file")
	ErrSessionStorage = response.NewError(http.StatusInternalServerError, "failed to access session images")
)
