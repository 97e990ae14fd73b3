package scanner

import (
	"context"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// WatchResult pairs a scanned code with its resolution or error.
type WatchResult struct {
	Barcode    string
	Resolution *models.ScanResolution
	Err        error
}

// Watch resolves every code received on codes under mode. The returned
// channel is closed when codes is closed or ctx is cancelled. Codes are
// resolved in arrival order.
func (r *Resolver) Watch(ctx context.Context, codes <-chan string, mode models.ScanMode) <-chan WatchResult {
	out := make(chan WatchResult)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case code, ok := <-codes:
				if !ok {
					return
				}
				resolution, err := r.Resolve(ctx, code, mode)
				select {
				case out <- WatchResult{Barcode: code, Resolution: resolution, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
