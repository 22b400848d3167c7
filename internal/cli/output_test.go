package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"unchecked": 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"unchecked": float64(2)}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		verbose bool
		details any
		check   func(t *testing.T, out string)
	}{
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				var resp CLIResponse
				require.NoError(t, json.Unmarshal([]byte(out), &resp))
				assert.Equal(t, "error", resp.Status)
				require.NotNil(t, resp.Error)
				assert.Equal(t, CodeNotFound, resp.Error.Code)
				assert.Equal(t, "no shopping item", resp.Error.Message)
			},
		},
		{
			name:    "json_details",
			format:  "json",
			details: map[string]string{"id": "42"},
			check: func(t *testing.T, out string) {
				var resp CLIResponse
				require.NoError(t, json.Unmarshal([]byte(out), &resp))
				require.NotNil(t, resp.Error)
				assert.Equal(t, map[string]any{"id": "42"}, resp.Error.Details)
			},
		},
		{
			name:    "text_hides_details",
			format:  "text",
			details: "id 42",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Error [E002]: no shopping item")
				assert.NotContains(t, out, "Details:")
			},
		},
		{
			name:    "text_verbose_details",
			format:  "text",
			verbose: true,
			details: "id 42",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Details: id 42")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: tt.format, Writer: buf, Verbose: tt.verbose}
			require.NoError(t, formatter.Error(CodeNotFound, "no shopping item", tt.details))
			tt.check(t, buf.String())
		})
	}
}

func TestOutputFormatter_Render(t *testing.T) {
	textCalled := func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "[ ] Milch (1)")
		return err
	}

	buf := &bytes.Buffer{}
	text := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, text.Render([]string{"ignored"}, textCalled))
	assert.Equal(t, "[ ] Milch (1)\n", buf.String())

	buf.Reset()
	js := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, js.Render([]string{"Milch"}, textCalled))
	assert.JSONEq(t, `{"status":"ok","data":["Milch"]}`, buf.String())
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad args")))

	inner := errors.New("disk full")
	wrapped := fmt.Errorf("command: %w", WrapExitError(ExitFailure, "write failed", inner))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, inner)
	assert.Equal(t, "command: write failed: disk full", wrapped.Error())
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotFound, errorCode(errors.New("plain")))
	assert.Equal(t, CodeNotFound, errorCode(NewExitError(ExitFailure, "no such item")))
	assert.Equal(t, CodeInvalidArgs, errorCode(NewExitError(ExitCommandError, "bad args")))
	assert.Equal(t, CodeConfig, errorCode(NewExitError(ExitCommandError, "bad config").WithCode(CodeConfig)))
}
