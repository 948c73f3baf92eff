package assets

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const memoryBaseURL = "https://assets.local/social"

// MemoryHost keeps decoded uploads in memory. Used when S3 is not configured.
type MemoryHost struct {
	mu     sync.Mutex
	assets map[string]*image
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{assets: make(map[string]*image)}
}

func (h *MemoryHost) Upload(_ context.Context, raw string) (string, error) {
	img, err := parseDataURL(raw)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.assets[id] = img
	h.mu.Unlock()

	return publicURL(memoryBaseURL, "", id+img.extension()), nil
}

func (h *MemoryHost) Destroy(_ context.Context, assetID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.assets, assetID)
	return nil
}

// Has reports whether assetID is still hosted.
func (h *MemoryHost) Has(assetID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.assets[assetID]
	return ok
}

func (h *MemoryHost) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.assets)
}
