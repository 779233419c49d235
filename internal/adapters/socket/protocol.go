// Package socket implements a JSON-over-Unix-socket protocol for the occ daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"time"
)

// SocketPath returns the Unix socket path for a given database path, so each
// database gets its own daemon.
// Format: /tmp/occ-{first12hex}.sock
func SocketPath(dbPath string) string {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		abs = dbPath
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/occ-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodConvert      = "convert"
	MethodScan         = "scan"
	MethodHealth       = "health"
	MethodDictionaries = "dictionaries"
	MethodReload       = "reload"
	MethodShutdown     = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ConvertParams is the params for a convert request.
type ConvertParams struct {
	Conversion string `json:"conversion"`
	Text       string `json:"text"`
}

// ConvertResult is the result of a convert request.
type ConvertResult struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
	Elapsed string `json:"elapsed,omitempty"`
}

// ScanParams is the params for a scan request. Terms, when set, are looked
// up in Text as well.
type ScanParams struct {
	Conversion string   `json:"conversion"`
	Text       string   `json:"text"`
	Terms      []string `json:"terms,omitempty"`
}

// ScanResult lists, per stage, the substitutions a conversion would make.
type ScanResult struct {
	Conversion string      `json:"conversion"`
	Stages     []StageScan `json:"stages"`
	Terms      []string    `json:"terms,omitempty"` // requested terms present in Text
	Output     string      `json:"output"`
	Elapsed    string      `json:"elapsed,omitempty"`
}

// StageScan is one pass of a scan. Offsets refer to the stage's input.
type StageScan struct {
	Stage string    `json:"stage"`
	Hits  []ScanHit `json:"hits"`
}

// ScanHit is a single substitution (rune offsets, end exclusive).
type ScanHit struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status       string `json:"status"`
	Dictionaries int    `json:"dictionaries"`
	Pairs        int    `json:"pairs"`
	Stages       int    `json:"stages"` // stage automata currently built
	Uptime       string `json:"uptime"`
}

// DictionariesResult is the result of a dictionaries request.
type DictionariesResult struct {
	Dictionaries []DictionaryInfo `json:"dictionaries"`
	Count        int              `json:"count"`
}

// DictionaryInfo describes one known dictionary.
type DictionaryInfo struct {
	Name      string    `json:"name"`
	Loaded    bool      `json:"loaded"`
	Pairs     int       `json:"pairs"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ReloadParams is the params for a reload request. An empty Name reloads
// every dictionary available in the dictionary directory.
type ReloadParams struct {
	Name string `json:"name,omitempty"`
}

// ReloadResult is the result of a reload request.
type ReloadResult struct {
	Reloaded  []string `json:"reloaded"`
	Pairs     int      `json:"pairs"`
	ElapsedMs int64    `json:"elapsed_ms"`
}
