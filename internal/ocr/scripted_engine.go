package ocr

import (
	"context"
	"os"
	"sync"
	"time"
)

// ScriptedEngine is an Engine double for tests. It reads the image file
// and answers with the canned text keyed by the file's contents, falling
// back to the contents themselves. A non-nil Err fails every call.
type ScriptedEngine struct {
	Texts map[string]string
	Delay map[string]time.Duration
	Err   error

	mu    sync.Mutex
	calls int
}

func (e *ScriptedEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}
	contents := string(data)

	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if d, ok := e.Delay[contents]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if e.Err != nil {
		return "", e.Err
	}
	if text, ok := e.Texts[contents]; ok {
		return text, nil
	}
	return contents, nil
}

// Calls reports how many recognitions were attempted.
func (e *ScriptedEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
