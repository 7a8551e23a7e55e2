package output

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/arcana-app/arcana-go/internal/models"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string      `json:"schema_version"`
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
	ErrorCode     string      `json:"error_code,omitempty"`
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response. Classified errors contribute their
// machine-readable code.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var coded models.CodedError
	if errors.As(err, &coded) {
		resp.ErrorCode = coded.ErrorCode()
	}
	return resp
}

// Print prints a value as JSON to stdout. Output is pretty-printed on a
// terminal and compact when piped; ARCANA_PRETTY_JSON=1 forces pretty.
func Print(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) || os.Getenv("ARCANA_PRETTY_JSON") == "1" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// PrintSuccess prints a success response
func PrintSuccess(data interface{}) error {
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}
