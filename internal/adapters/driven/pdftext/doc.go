// Package pdftext provides driven.TextExtractor implementations.
//
//   - Poppler shells out to pdftotext, which keeps line structure best
//   - Native reads the PDF in process with github.com/ledongthuc/pdf
//   - Auto tries Poppler and falls back to Native
//
// Image-only or unreadable pages yield empty text rather than an error.
package pdftext
