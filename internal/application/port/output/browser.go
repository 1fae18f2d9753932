package output

import (
	"context"

	"gurney/internal/domain/entity"
)

type BrowserPort interface {
	Navigate(ctx context.Context, url string) error

	// Snapshot returns the accessibility tree of the current page in
	// depth-first order.
	Snapshot(ctx context.Context) (entity.Snapshot, error)

	// PageText returns the visible text of the page body, truncated.
	PageText(ctx context.Context) (string, error)

	// Click resolves the target to exactly one element and clicks it.
	// Fails with entity.ErrTargetNotFound / entity.ErrAmbiguousTarget
	// when resolution does not yield a single element.
	Click(ctx context.Context, target entity.Target) error

	// Fill resolves the target, clears the field and types value.
	Fill(ctx context.Context, target entity.Target, value string, submit bool) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	CurrentURL() string
	Close()
}
