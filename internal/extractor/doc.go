// Package extractor turns normalised voucher text into a VoucherRecord.
//
// Extraction is a single pass over the cleaned lines. For each line the
// detectors are tried in priority order and only the first one whose
// trigger matches is applied; a detector that matches but cannot parse
// its line leaves the record untouched. A post-scan then derives the
// length of stay, copies the customer name, tidies company details and
// assembles the ordered line items.
package extractor
