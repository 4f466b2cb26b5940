// Package ingest reads contact datasets from disk and feeds them into a
// suggestion index. CSV and JSONL sources are supported, individually or
// through a YAML manifest listing several files.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
)

// scanBufSize caps a single dataset line at 1MB
const scanBufSize = 1024 * 1024

// Clock hands out the logical timestamps attached to inserted records.
// One shared Clock keeps recency comparable across files and across the
// REPL and serve modes.
type Clock struct {
	n atomic.Uint64
}

// Next returns the next logical timestamp, starting at 1.
func (c *Clock) Next() uint64 {
	return c.n.Add(1)
}

// Now reports the latest issued timestamp without advancing.
func (c *Clock) Now() uint64 {
	return c.n.Load()
}

// Stats summarizes one load run.
type Stats struct {
	Lines   int // data lines seen, header excluded
	Loaded  int // records inserted
	Skipped int // malformed or empty records
}

// Loader feeds dataset files into a suggestion index.
type Loader struct {
	idx   suggest.Suggester
	clock *Clock
}

// NewLoader creates a loader inserting into idx with timestamps from clock.
func NewLoader(idx suggest.Suggester, clock *Clock) *Loader {
	return &Loader{idx: idx, clock: clock}
}

// LoadFile ingests one dataset file, autodetecting the format when the
// caller passes FormatUnknown.
func (l *Loader) LoadFile(path string, format Format) (Stats, error) {
	if format == FormatUnknown {
		format = DetectFormat(path)
	}
	switch format {
	case FormatCSV:
		return l.LoadCSV(path)
	case FormatJSONL:
		return l.LoadJSONL(path)
	}
	return Stats{}, fmt.Errorf("cannot determine format of %s", path)
}

// openShared opens path under a shared advisory lock, so an exporter
// rewriting the dataset under an exclusive lock never interleaves with the
// read. The returned release func closes the file and drops the lock.
func openShared(path string) (*os.File, func(), error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}
	lock := flock.New(path)
	if err := lock.RLock(); err != nil {
		return nil, nil, fmt.Errorf("cannot lock file %s: %w", path, err)
	}
	file, err := os.Open(path)
	if err != nil {
		lock.Unlock()
		return nil, nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}
	release := func() {
		file.Close()
		if err := lock.Unlock(); err != nil {
			log.Warnf("Releasing lock on %s: %v", path, err)
		}
	}
	return file, release, nil
}

// LoadCSV ingests an id,name,address file. The first line is a header and
// is skipped. Rows split on the first two commas only, so the address
// column may itself contain commas. The id column is parsed but not used
// for keying; the inserted text is "name, address".
func (l *Loader) LoadCSV(path string) (Stats, error) {
	var stats Stats

	file, release, err := openShared(path)
	if err != nil {
		return stats, err
	}
	defer release()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return stats, fmt.Errorf("reading header of %s: %w", path, err)
		}
		return stats, fmt.Errorf("empty file %s", path)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		stats.Lines++

		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 3 {
			stats.Skipped++
			continue
		}
		name := strings.TrimSpace(parts[1])
		address := strings.TrimSpace(parts[2])
		if name == "" && address == "" {
			stats.Skipped++
			continue
		}
		l.insert(joinKey(name, address), 0, &stats)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Debugf("Loaded %d/%d records from %s (%d skipped)", stats.Loaded, stats.Lines, path, stats.Skipped)
	return stats, nil
}

// LoadJSONL ingests a file of one JSON object per line with "name" and
// "address" fields. A record may carry its own "ts"; records without one
// get the next clock tick.
func (l *Loader) LoadJSONL(path string) (Stats, error) {
	var stats Stats

	file, release, err := openShared(path)
	if err != nil {
		return stats, err
	}
	defer release()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		if !gjson.ValidBytes(line) {
			stats.Skipped++
			log.Debugf("Invalid JSON on line %d of %s", stats.Lines, path)
			continue
		}
		name := strings.TrimSpace(gjson.GetBytes(line, "name").String())
		address := strings.TrimSpace(gjson.GetBytes(line, "address").String())
		if name == "" && address == "" {
			stats.Skipped++
			continue
		}
		ts := gjson.GetBytes(line, "ts").Uint()
		l.insert(joinKey(name, address), ts, &stats)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Debugf("Loaded %d/%d records from %s (%d skipped)", stats.Loaded, stats.Lines, path, stats.Skipped)
	return stats, nil
}

// insert pushes one record into the index, counting rejected keys as
// skipped. A zero ts means take the next clock tick.
func (l *Loader) insert(text string, ts uint64, stats *Stats) {
	if ts == 0 {
		ts = l.clock.Next()
	}
	if _, err := l.idx.Insert(text, ts); err != nil {
		if errors.Is(err, suggest.ErrEmptyKey) {
			stats.Skipped++
			log.Debugf("Skipping record with empty key: %q", text)
			return
		}
		stats.Skipped++
		log.Warnf("Inserting %q: %v", text, err)
		return
	}
	stats.Loaded++
}

// joinKey builds the canonical display text for a contact row.
func joinKey(name, address string) string {
	if name == "" {
		return address
	}
	if address == "" {
		return name
	}
	return name + ", " + address
}
