// Package compose builds the ordered sequence of configuration fragments
// consumed by the lint engine.
//
// A [Sequence] is applied positionally: for a file matched by several
// fragments, later fragments override earlier ones. [Composer.Compose] always
// emits fragments in the same order, from global ignores to per-language
// fragments, then per-format fragments, then filename-specific overrides.
//
//	seq, err := compose.New().Compose(ctx, &compose.Options{
//		Vue: &compose.VueOptions{Enabled: true},
//	})
package compose
