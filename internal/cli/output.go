package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // command completed
	ExitFailure      = 1 // operation refused: unknown id, not logged in, ...
	ExitCommandError = 2 // bad arguments, bad config, unusable local store
)

// Error codes reported in JSON responses.
const (
	CodeInvalidArgs = "E001"
	CodeNotFound    = "E002"
	CodeConfig      = "E003"
	CodeStorage     = "E004"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	ErrCode string // JSON error code; derived from Code when empty
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// WithCode sets the JSON error code and returns e.
func (e *ExitError) WithCode(code string) *ExitError {
	e.ErrCode = code
	return e
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and message to err. err may be nil.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors without an
// ExitError in their chain exit with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode picks the JSON error code for err.
func errorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ErrCode != "" {
			return exitErr.ErrCode
		}
		if exitErr.Code == ExitCommandError {
			return CodeInvalidArgs
		}
	}
	return CodeNotFound
}

// CLIResponse wraps every JSON document the CLI prints.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" | "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter prints command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	Verbose   bool
}

func (f *OutputFormatter) json() bool { return f.Format == "json" }

// Success prints data. Text mode uses its default formatting.
func (f *OutputFormatter) Success(data any) error {
	if f.json() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Render prints data as a JSON response, or calls text for the
// human-readable form.
func (f *OutputFormatter) Render(data any, text func(w io.Writer) error) error {
	if f.json() {
		return f.Success(data)
	}
	return text(f.Writer)
}

// Error prints a coded error. Details are only shown in text mode with
// --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.json() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}
