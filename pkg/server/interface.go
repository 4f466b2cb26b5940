/*
Package server implements msgpack IPC for typeahead suggestion services.

The server package provides a minimal interface for prefix suggestions using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports suggestion queries, index mutations, dataset loading and status ops.
Messages are processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured messages via stdin and receive responses through stdout.
Each message carries an op field selecting the operation, an ID echoed back in the response, and op-specific fields.

Suggestion requests use mainly this structure:

	{"id": "req_001", "op": "complete", "p": "jane", "l": 5}

The server responds with suggestions ranked best first:

	{"id": "req_001", "s": [{"w": "Jane Doe, 12 Oak St", "r": 1}, {"w": "Jane Ann, 5 Elm St", "r": 2}], "c": 2, "t": 145}

When a prefix matches nothing and fuzzy fallback is enabled, the same op
answers from the edit-distance scan and flags the response:

	{"id": "req_002", "s": [{"w": "Jane Doe, 12 Oak St", "r": 1}], "c": 1, "z": true, "t": 811}

Mutation ops insert and delete records at runtime:

	{"id": "mut_001", "op": "insert", "text": "Mae West, 1 Main St"}
	{"id": "mut_002", "op": "delete", "text": "Mae West, 1 Main St"}

Dataset files can be loaded without restarting:

	{"id": "load_001", "op": "load", "path": "contacts.csv", "format": "csv"}

The stats and health ops report index counters and liveness.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and reducing latency in most cases.
*/
package server

// Supported values for the request op field.
const (
	OpComplete = "complete"
	OpFuzzy    = "fuzzy"
	OpInsert   = "insert"
	OpDelete   = "delete"
	OpLoad     = "load"
	OpStats    = "stats"
	OpHealth   = "health"
)

// Request - one incoming message; fields beyond ID and Op are op-specific
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Text   string `msgpack:"text,omitempty"`
	Ts     uint64 `msgpack:"ts,omitempty"`
	Path   string `msgpack:"path,omitempty"`
	Format string `msgpack:"format,omitempty"`
}

// ResponseSuggestion - minimal suggestion entry
type ResponseSuggestion struct {
	Word      string `msgpack:"w"`
	Rank      uint16 `msgpack:"r"`
	Frequency int    `msgpack:"f,omitempty"`
}

// CompleteResponse - suggestion query response
type CompleteResponse struct {
	ID          string               `msgpack:"id"`
	Suggestions []ResponseSuggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	Fuzzy       bool                 `msgpack:"z,omitempty"`
	TimeTaken   int64                `msgpack:"t"`
}

// MutationResponse - insert/delete response
type MutationResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Sid     int    `msgpack:"sid,omitempty"`
	Removed bool   `msgpack:"removed,omitempty"`
}

// LoadResponse - dataset load response
type LoadResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Lines   int    `msgpack:"lines"`
	Loaded  int    `msgpack:"loaded"`
	Skipped int    `msgpack:"skipped"`
}

// StatsResponse - index counters
type StatsResponse struct {
	ID           string `msgpack:"id"`
	Live         int    `msgpack:"live"`
	Slots        int    `msgpack:"slots"`
	Nodes        int    `msgpack:"nodes"`
	MaxFrequency int    `msgpack:"max_frequency"`
}

// StatusResponse - readiness and health signal
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
