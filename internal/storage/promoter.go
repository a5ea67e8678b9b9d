package storage

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

const defaultPromoteConcurrency = 8

// PromoteResult reports the outcome of promoting one object. Err is nil when
// the object is confirmed at its destination and the staged copy is gone.
type PromoteResult struct {
	Name    string
	SrcKey  string
	DestKey string
	Err     error
}

// Promoter moves staged objects to their permanent location. Per object the
// order is strict: copy, verify the destination, then delete the source.
// The staged copy is never deleted before the destination is confirmed.
type Promoter struct {
	store       ObjectStorage
	concurrency int
}

func NewPromoter(store ObjectStorage) *Promoter {
	return &Promoter{store: store, concurrency: defaultPromoteConcurrency}
}

// Promote moves every named object from srcPrefix to dstPrefix within bucket.
// Objects are promoted concurrently; each result is reported individually so
// partial success is visible to the caller. Re-promoting an already-promoted
// object (source gone, destination present) succeeds as a no-op.
func (p *Promoter) Promote(ctx context.Context, bucket, srcPrefix, dstPrefix string, names []string) []PromoteResult {
	results := make([]PromoteResult, len(names))

	g := &errgroup.Group{}
	g.SetLimit(p.concurrency)

	for i, name := range names {
		results[i] = PromoteResult{
			Name:    name,
			SrcKey:  JoinPath(srcPrefix, name),
			DestKey: JoinPath(dstPrefix, name),
		}
		res := &results[i]
		g.Go(func() error {
			res.Err = p.promoteOne(ctx, bucket, res.SrcKey, res.DestKey)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (p *Promoter) promoteOne(ctx context.Context, bucket, srcKey, dstKey string) error {
	srcExists, err := p.store.ObjectExists(ctx, bucket, srcKey)
	if err != nil {
		return err
	}

	if !srcExists {
		dstExists, err := p.store.ObjectExists(ctx, bucket, dstKey)
		if err != nil {
			return err
		}
		if dstExists {
			// Already promoted, likely a retried finalize.
			return nil
		}
		return errors.New("staged object not found")
	}

	if err := p.store.CopyObject(ctx, bucket, srcKey, dstKey); err != nil {
		return err
	}

	copied, err := p.store.ObjectExists(ctx, bucket, dstKey)
	if err != nil {
		return err
	}
	if !copied {
		return errors.New("copy not confirmed at destination")
	}

	// Only now is the staged copy safe to remove.
	return p.store.DeleteObject(ctx, bucket, srcKey)
}
