// Package actions writes step outputs and the step summary of a GitHub
// Actions run. Every writer is a no-op when its file path is empty, so the
// commands also work outside of Actions.
package actions

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Output appends to the files referenced by GITHUB_OUTPUT and GITHUB_STEP_SUMMARY.
type Output struct {
	outputPath  string
	summaryPath string
}

// New creates an Output. Empty paths disable the corresponding writer.
func New(outputPath, summaryPath string) *Output {
	return &Output{outputPath: outputPath, summaryPath: summaryPath}
}

// Enabled reports whether step outputs are written.
func (x *Output) Enabled() bool { return x.outputPath != "" }

// Set writes a single-line output.
func (x *Output) Set(key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return x.SetMultiline(key, value)
	}
	return x.appendOutput(key + "=" + value + "\n")
}

// SetMultiline writes an output using the heredoc syntax with a random
// delimiter that cannot collide with the value.
func (x *Output) SetMultiline(key, value string) error {
	delim := "ghadelimiter_" + uuid.NewString()
	for strings.Contains(value, delim) {
		delim = "ghadelimiter_" + uuid.NewString()
	}
	return x.appendOutput(key + "<<" + delim + "\n" + value + "\n" + delim + "\n")
}

func (x *Output) appendOutput(s string) error {
	if x.outputPath == "" {
		return nil
	}
	return appendFile(x.outputPath, s)
}

// WriteSummary replaces the step summary with content.
func (x *Output) WriteSummary(content string) error {
	if x.summaryPath == "" {
		return nil
	}
	if err := os.WriteFile(x.summaryPath, []byte(content), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write step summary", goerr.V("path", x.summaryPath))
	}
	return nil
}

func appendFile(path, s string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "failed to open output file", goerr.V("path", path))
	}
	if _, err := f.WriteString(s); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
	}
	return nil
}
