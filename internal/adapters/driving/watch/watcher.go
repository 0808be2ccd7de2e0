// Package watch parses voucher PDFs as they arrive in an inbox directory.
// Each parsed voucher is written next to its PDF as <name>.voucher.json.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// OutputSuffix replaces the .pdf extension of processed vouchers.
const OutputSuffix = ".voucher.json"

// DefaultDebounce is how long a file must be quiet before it is parsed.
// PDFs are usually written in several chunks.
const DefaultDebounce = 500 * time.Millisecond

// Result describes one processed voucher.
type Result struct {
	Path   string
	Output string
	Record *domain.VoucherRecord
	Err    error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithRate limits parsing to perSecond vouchers per second.
func WithRate(perSecond int) Option {
	return func(w *Watcher) {
		if perSecond > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// WithDebounce sets the quiet period before a changed file is parsed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithResultHandler is called after every processed voucher.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// Watcher parses vouchers dropped into a directory.
type Watcher struct {
	dir      string
	voucher  driving.VoucherService
	limiter  *rate.Limiter
	debounce time.Duration
	onResult func(Result)
}

// New creates a watcher for dir. The default rate is two vouchers per second.
func New(dir string, voucher driving.VoucherService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		voucher:  voucher,
		limiter:  rate.NewLimiter(rate.Limit(2), 2),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OutputPath returns where the record for a voucher PDF is written.
func OutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + OutputSuffix
}

// Scan processes every PDF in the directory whose record is missing or
// older than the PDF. Returns the number of vouchers processed.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", w.dir, err)
	}

	var pending []string
	for _, entry := range entries {
		if entry.IsDir() || !isVoucher(entry.Name()) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if upToDate(path) {
			continue
		}
		pending = append(pending, path)
	}
	sort.Strings(pending)

	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		w.emit(w.Process(ctx, path))
	}
	return len(pending), nil
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s for vouchers", w.dir)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleEvent(event); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range due(pending, now, w.debounce) {
				delete(pending, path)
				w.emit(w.Process(ctx, path))
			}
		}
	}
}

// Process parses one voucher and writes its record.
func (w *Watcher) Process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	if err := w.limiter.Wait(ctx); err != nil {
		res.Err = err
		return res
	}

	record, err := w.voucher.Parse(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Record = record

	out := OutputPath(path)
	if err := writeRecord(out, record); err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	return res
}

// handleEvent returns the voucher path an event refers to, if any.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !isVoucher(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) emit(res Result) {
	if res.Err != nil {
		logger.Warn("%s: %v", res.Path, res.Err)
	} else {
		logger.Debug("%s -> %s", res.Path, res.Output)
	}
	if w.onResult != nil {
		w.onResult(res)
	}
}

// isVoucher reports whether name is a visible PDF file.
func isVoucher(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// upToDate reports whether the record for path is newer than the PDF.
func upToDate(path string) bool {
	src, err := os.Stat(path)
	if err != nil {
		return false
	}
	out, err := os.Stat(OutputPath(path))
	if err != nil {
		return false
	}
	return !out.ModTime().Before(src.ModTime())
}

// due returns pending paths quiet for at least d, in sorted order.
func due(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, seen := range pending {
		if now.Sub(seen) >= d {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// writeRecord writes the record through a temporary file so readers never
// see a partial document.
func writeRecord(path string, record *domain.VoucherRecord) error {
	if record == nil {
		return errors.New("no record to write")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
