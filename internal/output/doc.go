// Package output provides structured output handling for the boardsync CLI.
//
// Every command works for both a person at a terminal and an automation
// agent reading stdout, so output has two modes selected by --json.
//
// # Printer
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
//
//	printer.Success(map[string]any{"message": "reply queued", "id": entry.ID})
//	printer.Error(err)
//	printer.KeyValue("Sync file", path)
//
// In JSON mode success data is written as an indented object and errors as
// {"error": "message", "code": N}. In human mode lipgloss styles are applied
// when the writer is a terminal (or --color always is given).
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad flags, missing sync file path
//	output.ExitSystemError // 2: I/O failure, unparseable sync file
//	output.ExitConflict    // 3: target file already exists
//
// Build errors with NewUserError, NewSystemError, NewSystemErrorWithCause
// and NewConflictError; GetExitCode maps any error back to a code.
package output
