package driven

import "context"

// TextExtractor pulls plain text out of a PDF file.
// Implementations return an empty string for image-only or unreadable
// pages; the caller decides whether that is an error.
type TextExtractor interface {
	// ExtractText returns the text of the first page, or of every page
	// joined by newlines when allPages is true.
	ExtractText(ctx context.Context, path string, allPages bool) (string, error)

	// Name identifies the backend for logging.
	Name() string
}
