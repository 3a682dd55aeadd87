package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/merge"
	"github.com/roamly/roamly/internal/ocr"
	"github.com/roamly/roamly/pkg/types"
)

// availabilityChecker is implemented by recognizers that can check their own
// availability.
type availabilityChecker interface {
	CheckAvailable(ctx context.Context) error
}

type ocrAvailability struct {
	mu        sync.Mutex
	checked   bool
	available bool
	lastError string
}

// OCRStatus reports the recognizer and its queue.
type OCRStatus struct {
	Enabled   bool            `json:"enabled"`
	Available bool            `json:"available"`
	Lang      string          `json:"lang"`
	LastError string          `json:"last_error,omitempty"`
	Queue     ocr.QueueStatus `json:"queue"`
	Counts    map[string]int  `json:"counts"`
}

// checkOCR checks the recognizer once and caches the answer.
func (s *Service) checkOCR(ctx context.Context) bool {
	p := &s.ocrAvailable
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.checked {
		return p.available
	}
	if s.recognizer == nil {
		p.lastError = types.ErrOCRUnavailable.Error()
		return false
	}
	p.checked, p.available = true, true
	if pr, ok := s.recognizer.(availabilityChecker); ok {
		if err := pr.CheckAvailable(ctx); err != nil {
			p.available = false
			p.lastError = err.Error()
		}
	}
	return p.available
}

func (s *Service) recordOCRError(err error) {
	s.ocrAvailable.mu.Lock()
	s.ocrAvailable.lastError = ocr.TruncateError(err)
	s.ocrAvailable.mu.Unlock()
}

// StartOCR starts the recognition worker. It fails with
// ErrOCRUnavailable when there is no working recognizer.
func (s *Service) StartOCR(ctx context.Context) error {
	if !s.checkOCR(ctx) {
		s.logger.Warn("OCR unavailable, recognition disabled", zap.String("error", s.ocrAvailable.lastError))
		return types.ErrOCRUnavailable
	}
	return s.queue.Start(ctx)
}

// StopOCR stops the worker. Queued ids are kept.
func (s *Service) StopOCR() {
	s.queue.Stop()
}

// WaitOCR blocks until the queue is drained.
func (s *Service) WaitOCR(ctx context.Context) error {
	return s.queue.Wait(ctx)
}

// QueueCandidates enqueues maps whose OCR result is missing, stale or
// failed, or every map with force. It returns how many were newly queued.
func (s *Service) QueueCandidates(ctx context.Context, force bool, limit int) (int, error) {
	if s.recognizer == nil {
		return 0, nil
	}
	ids, err := s.catalog.OCRCandidates(ctx, force, limit)
	if err != nil {
		return 0, err
	}
	return s.queue.Enqueue(ids...), nil
}

// QueueIDs enqueues specific maps.
func (s *Service) QueueIDs(ids ...string) int {
	if s.recognizer == nil {
		return 0
	}
	return s.queue.Enqueue(ids...)
}

// OCRStatus reports availability, queue state and per-status counts.
func (s *Service) OCRStatus(ctx context.Context) (OCRStatus, error) {
	available := s.checkOCR(ctx)
	counts, err := s.catalog.OCRCounts(ctx)
	if err != nil {
		return OCRStatus{}, err
	}
	s.ocrAvailable.mu.Lock()
	lastError := s.ocrAvailable.lastError
	s.ocrAvailable.mu.Unlock()
	return OCRStatus{
		Enabled:   s.recognizer != nil,
		Available: available,
		Lang:      s.ocrLang,
		LastError: lastError,
		Queue:     s.queue.Status(),
		Counts:    counts,
	}, nil
}

// ProcessOCR recognizes one map and merges the result. It is the queue
// handler. Results are recorded even when ctx is cancelled mid-run.
func (s *Service) ProcessOCR(ctx context.Context, id string) error {
	record := context.WithoutCancel(ctx)

	m, err := s.catalog.Get(record, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.catalog.MarkOCRProcessing(record, id); err != nil {
		return err
	}

	text, recErr := s.recognize(ctx, m)
	if recErr != nil {
		s.recordOCRError(recErr)
		if _, err := s.MergeOCRResult(record, id, "", types.OCRError, ocr.TruncateError(recErr)); err != nil {
			return errors.Join(recErr, err)
		}
		return recErr
	}

	status := types.OCRDone
	if text == "" {
		status = types.OCREmpty
	}
	_, err = s.MergeOCRResult(record, id, text, status, "")
	return err
}

// MergeOCRResult stores a recognition outcome for the map's current file
// version. A successful result also adds derived tags and folds the
// derived location into the map's location; the whole record is then
// mirrored to the sidecar. A failure only mirrors the OCR fields.
func (s *Service) MergeOCRResult(ctx context.Context, id, text, status, errMsg string) (types.MapRecord, error) {
	switch status {
	case types.OCRDone, types.OCREmpty, types.OCRError:
	default:
		return types.MapRecord{}, fmt.Errorf("invalid OCR status %q", status)
	}

	m, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}

	now := s.now()
	state := types.OCRState{
		OCRText:      ocr.NormalizeText(text),
		OCRStatus:    status,
		OCRUpdatedAt: &now,
		OCRMtime:     types.MillisPtr(m.Mtime),
	}
	if status == types.OCRError {
		state.OCRText = ""
		state.OCRError = ocr.TruncateError(errors.New(errMsg))
	}
	if err := s.catalog.UpdateOCR(ctx, id, state); err != nil {
		return types.MapRecord{}, err
	}

	latest, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	if status == types.OCRError {
		ocrOnly := latest.OCRState
		return latest, s.mirror(ctx, latest, types.MetaPatch{OCR: &ocrOnly})
	}

	derived := ocr.Derive(state.OCRText)
	latest.Tags = merge.UnionTags(latest.Tags, derived.Tags)
	latest.Location = merge.OCRLocation(latest.Location, derived.Location)
	if err := s.catalog.UpdateMeta(ctx, latest); err != nil {
		return types.MapRecord{}, err
	}

	final, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	return final, s.mirror(ctx, final, types.FullPatch(final))
}

func (s *Service) recognize(ctx context.Context, m types.MapRecord) (string, error) {
	if s.recognizer == nil {
		return "", types.ErrOCRUnavailable
	}

	imagePath := m.FilePath
	if m.Source == types.DriverWebDAV {
		tmp, err := s.download(ctx, m)
		if err != nil {
			return "", err
		}
		defer os.Remove(tmp)
		imagePath = tmp
	} else if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image missing: %w", err)
	}

	text, err := s.recognizer.Recognize(ctx, imagePath)
	if err != nil {
		return "", err
	}
	return ocr.NormalizeText(text), nil
}

// download copies a remote image to a temporary file and returns its path.
func (s *Service) download(ctx context.Context, m types.MapRecord) (string, error) {
	b, err := s.Backend()
	if err != nil {
		return "", err
	}
	if b.Source() != m.Source {
		return "", fmt.Errorf("map %s belongs to inactive source %s", m.ID, m.Source)
	}

	r, err := b.Open(ctx, m.FilePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", m.FilePath, err)
	}
	defer r.Close()

	ext := path.Ext(m.FilePath)
	if ext == "" {
		ext = ".img"
	}
	tmp := filepath.Join(os.TempDir(), "roamly-ocr-"+uuid.NewString()+ext)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("downloading %s: %w", m.FilePath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
