package intakeService

import (
	"io"
	"mime/multipart"
)

// FileSource is a raw file handle supplied by the user.
type FileSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type multipartSource struct {
	header *multipart.FileHeader
}

func (m multipartSource) Name() string {
	return m.header.Filename
}

func (m multipartSource) Open() (io.ReadCloser, error) {
	return m.header.Open()
}

// FromMultipart adapts uploaded form files, keeping their order.
func FromMultipart(headers []*multipart.FileHeader) []FileSource {
	sources := make([]FileSource, 0, len(headers))
	for _, h := range headers {
		if h == nil {
			continue
		}
		sources = append(sources, multipartSource{header: h})
	}
	return sources
}
