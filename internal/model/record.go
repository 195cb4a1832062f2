package model

import "time"

// Record collections. Each one maps to a flat, schemaless record set that the
// back office writes and reads without any document-style content handling.
const (
	CollectionClasses   = "classes"
	CollectionIncidents = "incidents"
	CollectionMemory    = "memory"
	CollectionTimeclock = "timeclock"
)

// ValidCollection reports whether name is one of the known record collections.
func ValidCollection(name string) bool {
	switch name {
	case CollectionClasses, CollectionIncidents, CollectionMemory, CollectionTimeclock:
		return true
	}
	return false
}

// Record is a flat schemaless entry belonging to a named collection (class
// logs, incidents, chatbot memory, time-clock punches). Fields holds the
// caller-supplied attributes verbatim.
type Record struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
}
