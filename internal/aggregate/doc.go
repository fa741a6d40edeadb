// Package aggregate layers config files over a set of defaults and turns
// the result into typed settings.
//
// Sources are applied in order, so later files win on scalar values while
// lists accumulate across files. After each source is merged the running
// mapping is built and validated; the first source that fails to load,
// merge or validate aborts the run with a [*SourceError] naming it. A
// failed run returns nothing else, and the builder's defaults are never
// modified.
//
//	agg := aggregate.New[*config.Settings](config.NewStore(nil))
//	res, err := agg.Run(ctx, []string{"base.yaml", "local.toml"})
package aggregate
