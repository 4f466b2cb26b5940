package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/ingest"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for prefix suggestions
type Server struct {
	idx    suggest.Suggester
	loader *ingest.Loader
	clock  *ingest.Clock
	cfg    *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer creates a suggestion server reading requests from r and
// writing responses to w
func NewServer(idx suggest.Suggester, loader *ingest.Loader, clock *ingest.Clock, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		idx:    idx,
		loader: loader,
		clock:  clock,
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// NewStdio creates a server on stdin/stdout for IPC
func NewStdio(idx suggest.Suggester, loader *ingest.Loader, clock *ingest.Clock, cfg *config.Config) *Server {
	return NewServer(idx, loader, clock, cfg, os.Stdin, os.Stdout)
}

// Start begins listening for IPC requests. It signals readiness first,
// then decodes one request at a time until the input stream ends.
func (s *Server) Start() error {
	log.Debug("Starting server.")

	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request by op
func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case OpComplete:
		s.handleComplete(request, false)
	case OpFuzzy:
		s.handleComplete(request, true)
	case OpInsert:
		s.handleInsert(request)
	case OpDelete:
		s.handleDelete(request)
	case OpLoad:
		s.handleLoad(request)
	case OpStats:
		s.handleStats(request)
	case OpHealth:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// sendResponse encodes the given response onto the output stream
func (s *Server) sendResponse(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// handleComplete processes a suggestion request. It validates the prefix
// against the configured length bounds, clamps the limit, queries the
// index and sends the ranked results. With fuzzyOp the edit-distance scan
// is queried directly; otherwise it only serves as fallback for an empty
// prefix result when the config enables that.
func (s *Server) handleComplete(request Request, fuzzyOp bool) {
	prefix := request.Prefix

	if prefix == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		log.Debug("Prefix is empty in request")
		return
	}
	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.cfg.Server.MinPrefix), 400)
		log.Debug("Prefix is too short in request")
		return
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		log.Debug("Prefix is too long in request")
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.CLI.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	var suggestions []suggest.Suggestion
	var err error
	usedFuzzy := fuzzyOp
	if fuzzyOp {
		suggestions, err = s.idx.FuzzySuggest(prefix, limit)
	} else {
		suggestions, err = s.idx.Autocomplete(prefix, limit)
		if err == nil && len(suggestions) == 0 && s.cfg.Index.FuzzyFallback {
			suggestions, err = s.idx.FuzzySuggest(prefix, limit)
			usedFuzzy = true
		}
	}
	elapsed := time.Since(start)

	if err != nil {
		s.sendError(request.ID, err.Error(), 500)
		log.Errorf("Query for prefix '%s': %v", prefix, err)
		return
	}

	results := make([]ResponseSuggestion, len(suggestions))
	for i, sg := range suggestions {
		results[i] = ResponseSuggestion{
			Word:      sg.Text,
			Rank:      uint16(i + 1),
			Frequency: sg.Frequency,
		}
	}

	s.sendResponse(CompleteResponse{
		ID:          request.ID,
		Suggestions: results,
		Count:       len(results),
		Fuzzy:       usedFuzzy,
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleInsert records one occurrence of the request text. A request may
// carry its own logical timestamp; without one the server clock ticks.
func (s *Server) handleInsert(request Request) {
	if request.Text == "" {
		s.sendError(request.ID, "Missing 'text' parameter", 400)
		return
	}
	ts := request.Ts
	if ts == 0 {
		ts = s.clock.Next()
	}
	id, err := s.idx.Insert(request.Text, ts)
	if err != nil {
		if errors.Is(err, suggest.ErrEmptyKey) {
			s.sendError(request.ID, "Text normalizes to an empty key", 400)
			return
		}
		s.sendError(request.ID, err.Error(), 500)
		return
	}
	s.sendResponse(MutationResponse{
		ID:     request.ID,
		Status: "ok",
		Sid:    id,
	})
}

// handleDelete undoes one occurrence of the request text
func (s *Server) handleDelete(request Request) {
	if request.Text == "" {
		s.sendError(request.ID, "Missing 'text' parameter", 400)
		return
	}
	removed := s.idx.Delete(request.Text)
	s.sendResponse(MutationResponse{
		ID:      request.ID,
		Status:  "ok",
		Removed: removed,
	})
}

// handleLoad ingests a dataset file into the running index
func (s *Server) handleLoad(request Request) {
	if request.Path == "" {
		s.sendError(request.ID, "Missing 'path' parameter", 400)
		return
	}
	format, err := ingest.ParseFormat(request.Format)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	stats, err := s.loader.LoadFile(request.Path, format)
	if err != nil {
		s.sendError(request.ID, err.Error(), 500)
		log.Errorf("Loading %s: %v", request.Path, err)
		return
	}
	s.sendResponse(LoadResponse{
		ID:      request.ID,
		Status:  "ok",
		Lines:   stats.Lines,
		Loaded:  stats.Loaded,
		Skipped: stats.Skipped,
	})
}

// handleStats reports index counters
func (s *Server) handleStats(request Request) {
	st := s.idx.Stats()
	s.sendResponse(StatsResponse{
		ID:           request.ID,
		Live:         st["live"],
		Slots:        st["slots"],
		Nodes:        st["nodes"],
		MaxFrequency: st["maxFrequency"],
	})
}
