// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/ingest"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler processes user input from stdin, providing suggestions.
// Plain lines are prefix queries; lines starting with ":" run commands
// that mutate or inspect the index (see :help).
type InputHandler struct {
	idx             suggest.Suggester
	loader          *ingest.Loader
	clock           *ingest.Clock
	commands        *commandSet
	suggestLimit    int
	fuzzyFallback   bool
	minPrefixLength int
	maxPrefixLength int
}

// NewInputHandler handles initialization of the InputHandler from config
func NewInputHandler(idx suggest.Suggester, loader *ingest.Loader, clock *ingest.Clock, cfg *config.Config) *InputHandler {
	return &InputHandler{
		idx:             idx,
		loader:          loader,
		clock:           clock,
		commands:        newCommandSet("insert", "delete", "load", "topk", "fuzzy", "stats", "help", "quit"),
		suggestLimit:    cfg.CLI.DefaultLimit,
		fuzzyFallback:   cfg.Index.FuzzyFallback,
		minPrefixLength: cfg.Server.MinPrefix,
		maxPrefixLength: cfg.Server.MaxPrefix,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and either
// runs a colon command or treats the line as a query prefix.
// Loop terminates on :quit or when stdin ends.
func (h *InputHandler) Start() error {
	log.Print("Typeahead CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a prefix and press Enter to see suggestions, :help for commands (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if done := h.runCommand(strings.TrimPrefix(line, ":")); done {
				return nil
			}
			continue
		}
		h.handleQuery(line)
	}
}

// runCommand executes one colon command line and reports whether the
// loop should exit
func (h *InputHandler) runCommand(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	cmd, err := h.commands.resolve(name)
	if err != nil {
		log.Errorf("%v", err)
		return false
	}

	switch cmd {
	case "insert":
		h.cmdInsert(rest)
	case "delete":
		h.cmdDelete(rest)
	case "load":
		h.cmdLoad(rest)
	case "topk":
		h.cmdTopK(rest)
	case "fuzzy":
		h.cmdFuzzy(rest)
	case "stats":
		h.cmdStats()
	case "help":
		h.cmdHelp()
	case "quit":
		return true
	}
	return false
}

func (h *InputHandler) cmdInsert(text string) {
	if text == "" {
		log.Errorf("usage: :insert <text>")
		return
	}
	id, err := h.idx.Insert(text, h.clock.Next())
	if err != nil {
		log.Errorf("Insert failed: %v", err)
		return
	}
	log.Printf("Inserted #%d: %s", id, text)
}

func (h *InputHandler) cmdDelete(text string) {
	if text == "" {
		log.Errorf("usage: :delete <text>")
		return
	}
	if h.idx.Delete(text) {
		log.Printf("Deleted one occurrence of: %s", text)
	} else {
		log.Warnf("No entry found for: %s", text)
	}
}

func (h *InputHandler) cmdLoad(rest string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		log.Errorf("usage: :load <path> [csv|jsonl]")
		return
	}
	format := ingest.FormatUnknown
	if len(fields) > 1 {
		var err error
		if format, err = ingest.ParseFormat(fields[1]); err != nil {
			log.Errorf("%v", err)
			return
		}
	}
	stats, err := h.loader.LoadFile(fields[0], format)
	if err != nil {
		log.Errorf("Load failed: %v", err)
		return
	}
	log.Printf("Loaded %d records from %s (%d lines, %d skipped)", stats.Loaded, fields[0], stats.Lines, stats.Skipped)
}

func (h *InputHandler) cmdTopK(rest string) {
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		log.Errorf("usage: :topk <positive number>")
		return
	}
	h.suggestLimit = n
	log.Printf("Suggestion limit set to %d", n)
}

func (h *InputHandler) cmdFuzzy(rest string) {
	switch rest {
	case "on":
		h.fuzzyFallback = true
		log.Print("Fuzzy fallback enabled")
	case "off":
		h.fuzzyFallback = false
		log.Print("Fuzzy fallback disabled")
	default:
		log.Errorf("usage: :fuzzy on|off")
	}
}

func (h *InputHandler) cmdStats() {
	st := h.idx.Stats()
	log.Printf("live suggestions: %s", utils.FormatWithCommas(st["live"]))
	log.Printf("store slots:      %s", utils.FormatWithCommas(st["slots"]))
	log.Printf("trie nodes:       %s", utils.FormatWithCommas(st["nodes"]))
	log.Printf("max frequency:    %s", utils.FormatWithCommas(st["maxFrequency"]))
}

func (h *InputHandler) cmdHelp() {
	log.Print("commands (any unambiguous abbreviation works):")
	log.Print("  :insert <text>          add one occurrence")
	log.Print("  :delete <text>          remove one occurrence")
	log.Print("  :load <path> [format]   ingest a csv/jsonl dataset")
	log.Print("  :topk <n>               set the suggestion limit")
	log.Print("  :fuzzy on|off           toggle fuzzy fallback")
	log.Print("  :stats                  show index counters")
	log.Print("  :quit                   exit")
}

// handleQuery processes a single prefix to generate suggestions.
// It validates the prefix's length, then asks the index for suggestions,
// falling back to the fuzzy scan when nothing matches and the fallback is
// enabled. Results are formatted and printed to the log.
func (h *InputHandler) handleQuery(prefix string) {
	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}

	start := time.Now()
	log.Debug("Processing request for", "prefix", prefix)

	suggestions, err := h.idx.Autocomplete(prefix, h.suggestLimit)
	if err != nil {
		log.Errorf("Query failed: %v", err)
		return
	}
	fuzzy := false
	if len(suggestions) == 0 && h.fuzzyFallback {
		if suggestions, err = h.idx.FuzzySuggest(prefix, h.suggestLimit); err != nil {
			log.Errorf("Fuzzy query failed: %v", err)
			return
		}
		fuzzy = true
	}

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	if fuzzy {
		log.Printf("No exact matches; %d fuzzy suggestions for '%s':", len(suggestions), prefix)
	} else {
		log.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	}
	for i, s := range suggestions {
		fmtFreq := utils.FormatWithCommas(s.Frequency)
		clText := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Text)
		log.Printf("%2d. %-40s (freq: %8s)", i+1, clText, fmtFreq)
	}
}
