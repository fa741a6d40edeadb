// Package config turns a merged configuration mapping into typed [Settings].
//
// The mapping usually comes from layering several config files over
// [DefaultValues] (see package aggregate). A [Store] decodes it with viper,
// letting command-line flags bound through [Store.BindFlags] override file
// values, and rejects keys that have no corresponding setting.
//
// A mapping that decodes cleanly is then checked by [Validate]. Every
// failure is reported, each as a [*FieldError]:
//
//	s, err := store.Build(merged)
//	if errors.Is(err, errors.ErrInvalidConfig) {
//	    // unknown key, wrong type or out-of-range value
//	}
//
// The loaded settings travel through command contexts with [NewContext] and
// [FromContext].
package config
