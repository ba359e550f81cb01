// Package errlog collects human-readable error messages encountered during a
// single orchestration attempt. Entries are kept in insertion order, never
// deduplicated and never dropped; callers inspect the log after processing
// because the orchestrator itself never returns an error.
package errlog

// Log is an append-only, request-scoped error list.
type Log struct {
	messages []string
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Append records a message.
func (l *Log) Append(message string) {
	l.messages = append(l.messages, message)
}

// All returns the recorded messages in insertion order. The returned slice is
// never nil so it serializes as [] rather than null.
func (l *Log) All() []string {
	if l.messages == nil {
		return []string{}
	}
	return l.messages
}

// Empty reports whether nothing has been recorded.
func (l *Log) Empty() bool {
	return len(l.messages) == 0
}
