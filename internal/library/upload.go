package library

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/storage"
)

// Upload is one file to add to the library.
type Upload struct {
	Name   string
	Reader io.Reader
}

// UploadResult lists the library-relative paths written and the rescan
// that followed.
type UploadResult struct {
	Paths []string   `json:"paths"`
	Scan  ScanResult `json:"scan"`
}

// SaveUploads writes files into folder without overwriting anything, then
// rescans the library. The folder must stay inside the library.
func (s *Service) SaveUploads(ctx context.Context, folder string, files []Upload) (UploadResult, error) {
	if len(files) == 0 {
		return UploadResult{}, fmt.Errorf("no files to upload")
	}
	b, err := s.Backend()
	if err != nil {
		return UploadResult{}, err
	}

	var res UploadResult
	for _, f := range files {
		rel, err := storage.SaveUpload(ctx, b, folder, f.Name, f.Reader)
		if err != nil {
			return res, fmt.Errorf("uploading %s: %w", f.Name, err)
		}
		s.logger.Info("map uploaded", zap.String("path", rel))
		res.Paths = append(res.Paths, rel)
	}

	res.Scan, err = s.ScanLibrary(ctx)
	return res, err
}

// Folders lists library folders, hidden ones excluded.
func (s *Service) Folders(ctx context.Context) ([]string, error) {
	b, err := s.Backend()
	if err != nil {
		return nil, err
	}
	return b.ListDirs(ctx, FolderDepth)
}
