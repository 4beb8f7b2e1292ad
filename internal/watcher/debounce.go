package watcher

import (
	"context"
	"time"
)

// Debounce groups changes until quiet passes without a new one, then emits the
// batch. The returned channel closes when in closes or ctx ends.
func Debounce(ctx context.Context, in <-chan string, quiet time.Duration) <-chan []string {
	out := make(chan []string)

	go func() {
		defer close(out)
		for {
			var batch []string
			select {
			case p, ok := <-in:
				if !ok {
					return
				}
				batch = append(batch, p)
			case <-ctx.Done():
				return
			}

		rootFor:
			for {
				select {
				case p, ok := <-in:
					if !ok {
						break rootFor
					}
					batch = append(batch, p)
				case <-time.After(quiet):
					break rootFor
				case <-ctx.Done():
					return
				}
			}

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
