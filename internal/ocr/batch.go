package ocr

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch recognizes every image concurrently and returns the extracted
// texts in input order. Any single failure fails the whole batch; partial
// results are discarded.
func Batch(ctx context.Context, engine Engine, paths []string) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	texts := make([]string, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			text, err := engine.Recognize(ctx, path)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
