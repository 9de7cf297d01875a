package logger

import (
	"encoding/json"
	"sync"
)

const defaultBufferSize = 500

// Broadcaster pushes a typed payload to connected websocket clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Entry is a parsed log line held in the recent-entry buffer.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// StreamWriter is an io.Writer fed by zerolog. It keeps a bounded ring of
// recent entries and forwards new entries to the hub when one is attached.
type StreamWriter struct {
	mu      sync.RWMutex
	hub     Broadcaster
	entries []Entry
	head    int
	count   int
}

// NewStreamWriter creates a stream writer with the given buffer capacity.
func NewStreamWriter(capacity int) *StreamWriter {
	if capacity <= 0 {
		capacity = defaultBufferSize
	}
	return &StreamWriter{entries: make([]Entry, capacity)}
}

// SetHub attaches the websocket hub. Safe to call after logging has begun.
func (w *StreamWriter) SetHub(hub Broadcaster) {
	w.mu.Lock()
	w.hub = hub
	w.mu.Unlock()
}

// Write implements io.Writer for zerolog's JSON output. Malformed lines
// are counted as written and dropped.
func (w *StreamWriter) Write(p []byte) (int, error) {
	entry, ok := parseEntry(p)
	if !ok {
		return len(p), nil
	}

	w.mu.Lock()
	size := len(w.entries)
	w.entries[(w.head+w.count)%size] = entry
	if w.count < size {
		w.count++
	} else {
		w.head = (w.head + 1) % size
	}
	hub := w.hub
	w.mu.Unlock()

	if hub != nil {
		_ = hub.Broadcast("logs:entry", entry)
	}
	return len(p), nil
}

// Recent returns the buffered entries, oldest first.
func (w *StreamWriter) Recent() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Entry, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.entries[(w.head+i)%len(w.entries)]
	}
	return out
}

func parseEntry(data []byte) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, false
	}

	entry := Entry{Fields: make(map[string]any)}
	if ts, ok := raw["time"].(string); ok {
		entry.Timestamp = ts
		delete(raw, "time")
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = level
		delete(raw, "level")
	}
	if component, ok := raw["component"].(string); ok {
		entry.Component = component
		delete(raw, "component")
	}
	if msg, ok := raw["message"].(string); ok {
		entry.Message = msg
		delete(raw, "message")
	}
	for k, v := range raw {
		entry.Fields[k] = v
	}
	return entry, true
}
