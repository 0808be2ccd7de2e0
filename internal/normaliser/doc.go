// Package normaliser repairs spacing defects in text extracted from PDFs.
//
// PDF text extraction loses whitespace unevenly depending on font and
// kerning, so no single rule fixes every case. The Normaliser runs each
// line through an ordered Pipeline of layers, from generic structural
// rules down to a literal correction table:
//
//  0. Unicode compatibility fold (ligatures, non-breaking spaces)
//  1. Case-transition spacing: "wordAnother" -> "word Another"
//  2. Digit/letter boundary spacing: "10Sinclair" -> "10 Sinclair"
//  3. Punctuation spacing around . , : ; ! ?
//  4. Numeric literal repair: "1688 . 50" -> "1688.50", "G 846886" -> "G846886"
//  5. Known-phrase corrections: "V oucher" -> "Voucher"
//  6. Whitespace collapse and trim
//
// Lines are processed independently and the line count is preserved.
// Normalisation is idempotent: normalising its own output changes nothing.
package normaliser
