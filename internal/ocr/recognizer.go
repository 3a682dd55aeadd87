package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/roamly/roamly/pkg/types"
)

// Recognizer turns an image file on local disk into text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Defaults for the tesseract command line.
const (
	DefaultCommand      = "tesseract"
	DefaultLang         = "chi_sim+eng"
	DefaultTimeout      = 120 * time.Second
	DefaultCheckTimeout = 6 * time.Second
)

// MaxErrorLength bounds the error message stored on a failed map.
const MaxErrorLength = 800

// Tesseract runs the tesseract binary as a subprocess.
type Tesseract struct {
	Command string
	Lang    string
	Timeout time.Duration
}

// NewTesseract fills unset fields with defaults.
func NewTesseract(command, lang string, timeout time.Duration) *Tesseract {
	if command == "" {
		command = DefaultCommand
	}
	if lang == "" {
		lang = DefaultLang
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tesseract{Command: command, Lang: lang, Timeout: timeout}
}

// CheckAvailable checks that the binary runs. The error wraps ErrOCRUnavailable.
func (t *Tesseract) CheckAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
	defer cancel()
	if err := exec.CommandContext(ctx, t.Command, "--version").Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrOCRUnavailable, t.Command, err)
	}
	return nil
}

// Recognize runs one recognition with page segmentation mode 6 and returns
// normalized text.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Command, imagePath, "stdout", "-l", t.Lang, "--psm", "6")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("recognition timed out after %s", t.Timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", t.Command, err, msg)
		}
		return "", fmt.Errorf("%s: %w", t.Command, err)
	}
	return NormalizeText(stdout.String()), nil
}

// TruncateError renders err for storage, cut to MaxErrorLength runes.
func TruncateError(err error) string {
	if err == nil {
		return ""
	}
	msg := []rune(err.Error())
	if len(msg) > MaxErrorLength {
		msg = msg[:MaxErrorLength]
	}
	return string(msg)
}
