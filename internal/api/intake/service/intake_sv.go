package intakeService

import (
	"context"
	"fmt"
	"io"

	"TumorDetector/internal/api/intake"
	"TumorDetector/internal/entity"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/datauri"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Ingest reads every file concurrently and returns them as data URIs in input
// order. A single failed read fails the whole call and nothing is returned.
func (s *intakeService) Ingest(ctx context.Context, files []FileSource) ([]entity.UploadedImage, error) {
	requestID := contextPkg.GetRequestID(ctx)

	images := make([]entity.UploadedImage, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			image, err := readImage(file)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", intake.ErrReadFile, file.Name(), err)
			}
			images[i] = image
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"file_count": len(files),
			"error":      err.Error(),
		}).Warn("Image intake aborted")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"image_count": len(images),
	}).Debug("Images ingested")

	return images, nil
}

func readImage(file FileSource) (entity.UploadedImage, error) {
	rc, err := file.Open()
	if err != nil {
		return entity.UploadedImage{}, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return entity.UploadedImage{}, err
	}

	return entity.UploadedImage{
		FileName:   file.Name(),
		Base64File: datauri.Encode(content),
	}, nil
}

func (s *intakeService) SaveSessionImages(ctx context.Context, sessionID string, images []entity.UploadedImage) error {
	if err := s.repository.SaveImages(ctx, sessionID, images); err != nil {
		return fmt.Errorf("%w: %v", intake.ErrSessionStorage, err)
	}
	return nil
}

func (s *intakeService) SessionImages(ctx context.Context, sessionID string) ([]entity.UploadedImage, error) {
	images, err := s.repository.GetImages(ctx, sessionID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to load session images")
		return nil, fmt.Errorf("%w: %v", intake.ErrSessionStorage, err)
	}
	return images, nil
}

func (s *intakeService) ClearSessionImages(ctx context.Context, sessionID string) error {
	if err := s.repository.ClearImages(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", intake.ErrSessionStorage, err)
	}
	return nil
}
