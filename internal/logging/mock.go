package logging

import "sync"

// MockLogger records log entries for assertions in tests.
// Child loggers created with WithField/WithError write into the same record.
type MockLogger struct {
	rec    *record
	err    error
	fields []Field
}

// LogEntry is a single captured log line.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

type record struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger returns an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{rec: &record{}}
}

func (m *MockLogger) add(level, msg string, fields []Field) {
	if m.rec == nil {
		m.rec = &record{}
	}
	all := make([]Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.rec.mu.Lock()
	m.rec.entries = append(m.rec.entries, LogEntry{Level: level, Message: msg, Fields: all, Error: m.err})
	m.rec.mu.Unlock()
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.add("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.add("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.add("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.add("ERROR", msg, fields) }

// Fatal records the entry without exiting.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.add("FATAL", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	if m.rec == nil {
		m.rec = &record{}
	}
	return &MockLogger{rec: m.rec, err: err, fields: m.fields}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	if m.rec == nil {
		m.rec = &record{}
	}
	all := make([]Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)
	return &MockLogger{rec: m.rec, err: m.err, fields: all}
}

// Entries returns a copy of every captured entry.
func (m *MockLogger) Entries() []LogEntry {
	if m.rec == nil {
		return nil
	}
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	out := make([]LogEntry, len(m.rec.entries))
	copy(out, m.rec.entries)
	return out
}

// GetEntriesByLevel returns entries of one level ("DEBUG", "INFO", "WARN", "ERROR", "FATAL").
func (m *MockLogger) GetEntriesByLevel(level string) []LogEntry {
	var entries []LogEntry
	for _, entry := range m.Entries() {
		if entry.Level == level {
			entries = append(entries, entry)
		}
	}
	return entries
}

// HasEntry reports whether an entry with this level and message was captured.
func (m *MockLogger) HasEntry(level, message string) bool {
	for _, entry := range m.Entries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

// Clear drops all captured entries.
func (m *MockLogger) Clear() {
	if m.rec == nil {
		return
	}
	m.rec.mu.Lock()
	m.rec.entries = nil
	m.rec.mu.Unlock()
}
