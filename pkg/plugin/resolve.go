package plugin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/macropower/lintcfg/pkg/log"
)

// Loader loads an optional set of plugins.
type Loader func(ctx context.Context) (Set, error)

// Static returns a [Loader] that always yields a copy of s.
func Static(s Set) Loader {
	return func(context.Context) (Set, error) {
		return s.Clone(), nil
	}
}

// Once returns a [Loader] that calls l at most once and then replays its
// result. Errors caused by the caller's context are not kept, so a later call
// with a live context loads again. Callers must not modify the returned set.
func Once(l Loader) Loader {
	var (
		mu   sync.Mutex
		done bool
		set  Set
		err  error
	)

	return func(ctx context.Context) (Set, error) {
		mu.Lock()
		defer mu.Unlock()

		if !done {
			set, err = l(ctx)
			done = !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}

		return set, err
	}
}

// Resolve builds the active plugin set: a copy of base, merged with the sets
// produced by loaders in argument order. Loaders run concurrently. The first
// loader error is returned unchanged; there is no retry or fallback.
func Resolve(ctx context.Context, base Set, loaders ...Loader) (Set, error) {
	ctx, span := otel.Tracer("plugin").Start(ctx, "resolve", trace.WithAttributes(
		attribute.StringSlice("base", base.Names()),
		attribute.Int("loaders", len(loaders)),
	))
	defer span.End()

	results := make([]Set, len(loaders))

	g, gctx := errgroup.WithContext(ctx)
	for i, load := range loaders {
		if load == nil {
			continue
		}

		g.Go(func() error {
			s, err := load(gctx)
			if err != nil {
				return err
			}

			results[i] = s

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load plugins")

		return nil, err //nolint:wrapcheck // Loader errors propagate unchanged.
	}

	out := base.Clone()
	for _, s := range results {
		out = out.Merge(s)
	}

	span.SetAttributes(attribute.StringSlice("plugins", out.Names()))
	log.WithContext(ctx).DebugContext(ctx, "resolved plugins",
		slog.Any("plugins", out.Names()),
	)

	return out, nil
}
