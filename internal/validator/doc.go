// Package validator collects the findings of a config validation run and
// renders them for people or for scripts.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes blocking errors from warnings and notes.
//   - [Issue]: A single finding, located by source file, line and field.
//   - [Result]: The findings of one run plus the sources it covered.
//   - [Reporter]: Writes a Result as text or JSON.
//
// [FromError] turns an error from the aggregator into issues. A malformed
// document becomes one issue carrying its line and column. A settings
// validation failure becomes one issue per invalid field.
//
// # Basic Usage
//
//	result := &validator.Result{Sources: files}
//	if _, err := agg.Run(ctx, files); err != nil {
//		result.Add(validator.FromError(err)...)
//	}
//	validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
