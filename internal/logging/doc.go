// Package logging configures log/slog for the fmcheck CLI.
//
// Logs go to stderr so that stdout carries only the validation report.
// The default level is warn; each -v flag lowers it one step (info, debug,
// then [LevelTrace]). [NewHandler] renders compact colorized lines on a
// terminal and plain text elsewhere.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbose),
//		Format: logging.FormatText,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Tests can route output through the testing framework with [ForTest].
package logging
