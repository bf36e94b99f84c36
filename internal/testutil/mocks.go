package testutil

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/telegram"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any formatted message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface with plain counters.
type MockMetrics struct {
	mu               sync.Mutex
	Migrated         map[string]int
	MigrationErrors  map[string]int
	CommitsOK        int
	CommitsFailed    int
	Steps            []string
	Validation       map[string]bool
	AlertsSent       int
	AlertFailures    int
	DevicesOverLimit int
	Targets          int
	Evaluations      int
	CacheHits        int
	CacheMisses      int
	Requests         int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) AddMigrated(collection string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Migrated == nil {
		m.Migrated = make(map[string]int)
	}
	m.Migrated[collection] += count
}
func (m *MockMetrics) AddMigrationErrors(collection string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MigrationErrors == nil {
		m.MigrationErrors = make(map[string]int)
	}
	m.MigrationErrors[collection] += count
}
func (m *MockMetrics) IncCommits(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.CommitsOK++
	} else {
		m.CommitsFailed++
	}
}
func (m *MockMetrics) ObserveStepDuration(step string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Steps = append(m.Steps, step)
}
func (m *MockMetrics) SetValidation(check string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Validation == nil {
		m.Validation = make(map[string]bool)
	}
	m.Validation[check] = ok
}
func (m *MockMetrics) IncAlertsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsSent++
}
func (m *MockMetrics) IncAlertFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertFailures++
}
func (m *MockMetrics) SetDevicesOverLimit(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DevicesOverLimit = count
}
func (m *MockMetrics) ObserveEvaluationDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluations++
}
func (m *MockMetrics) SetTargetsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Targets = count
}

// SentMessage is one message accepted by MockTransport.
type SentMessage struct {
	ChatID     int64
	Text       string
	Formatting telegram.Formatting
}

// MockTransport implements telegram.Transport.
type MockTransport struct {
	mu      sync.Mutex
	Sent    []SentMessage
	Fetches []int64
	// FailChats rejects sends to these chat ids.
	FailChats map[int64]bool
	// Updates is returned by FetchUpdates, filtered by sinceID.
	Updates  []telegram.Update
	FetchErr error
	// NilUpdates makes FetchUpdates return a nil slice without error.
	NilUpdates bool
}

var ErrSendRejected = errors.New("chat rejected message")

func (m *MockTransport) Send(_ context.Context, chatID int64, text string, formatting telegram.Formatting) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailChats[chatID] {
		return false, ErrSendRejected
	}
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text, Formatting: formatting})
	return true, nil
}

func (m *MockTransport) FetchUpdates(_ context.Context, sinceID int64, _ int) ([]telegram.Update, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches = append(m.Fetches, sinceID)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.NilUpdates {
		return nil, nil
	}
	var out []telegram.Update
	for _, u := range m.Updates {
		if u.UpdateID > sinceID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockTransport) SentTo(chatID int64) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMessage
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}
