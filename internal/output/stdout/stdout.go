package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Output writes documents to stdout.
type Output struct{}

// New creates a stdout Output.
func New() *Output {
	return &Output{}
}

// Write copies doc to os.Stdout as-is. os.Stdout is read on every call so
// tests can redirect it.
func (o *Output) Write(_ context.Context, doc string) error {
	if _, err := io.WriteString(os.Stdout, doc); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
