// Package logging provides structured logging for the groundwork CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("merged config source", "source", "groundwork.yaml")
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Levels and Context
//
// [LevelFromVerbosity] maps a -v count to a level, with [LevelTrace] below
// debug. Commands pass their logger along with [NewContext] and retrieve it
// with [FromContext].
//
// # Redaction
//
// The text [Handler] masks attribute values whose keys look like secrets
// (see [ShouldMask]) or whose values carry a known token prefix. [Redact]
// applies the same rules to a whole config mapping.
//
// # Outputs
//
// Set [Config].File to copy every record as JSON to a second writer, as
// --log-file does. [MultiHandler] does the fan-out. The text handler only
// colors its output when [SupportsColor] says the writer is a terminal that
// wants color.
package logging
