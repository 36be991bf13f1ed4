// Package output delivers finished Markdown documents to their
// destinations.
package output

import "context"

// Output is a destination for rendered documents.
type Output interface {
	Write(ctx context.Context, doc string) error
	Close() error
}
