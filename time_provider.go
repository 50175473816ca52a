package agentexec

import (
	"sync"
	"time"
)

// TimeProvider supplies the current time.
//
// The executor measures the execution time budget with it, and prompt templates can reach it
// through the .Time field:
//
//	Today is {{.Time.Today}} ({{.Time.Weekday}})
//	Current time: {{.Time.Format "3:04 PM"}}
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time

	// Today returns today's date as a string (YYYY-MM-DD).
	//
	// Template: {{.Time.Today}}
	// Output: 2025-02-15
	Today() string

	// Format returns the current time formatted with the given layout.
	//
	// Template: {{.Time.Format "2006-01-02 15:04:05"}}
	// Output: 2025-02-15 14:30:00
	Format(layout string) string

	// Weekday returns the current day of the week (e.g., "Monday").
	Weekday() string
}

// DefaultTimeProvider is the standard TimeProvider using the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

// Now returns the current system time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

// Today returns today's date as YYYY-MM-DD.
func (p *DefaultTimeProvider) Today() string {
	return p.Now().Format("2006-01-02")
}

// Format returns the current time formatted with the given layout.
func (p *DefaultTimeProvider) Format(layout string) string {
	return p.Now().Format(layout)
}

// Weekday returns the current day of the week.
func (p *DefaultTimeProvider) Weekday() string {
	return p.Now().Weekday().String()
}

// MockTimeProvider is a TimeProvider whose clock only moves when told to.
// Useful for testing time limits and time-dependent prompts. Safe for concurrent use.
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider creates a MockTimeProvider starting at t.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: t}
}

// SetTime updates the time returned by Now.
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Now returns the mock time.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Today returns the mock date as YYYY-MM-DD.
func (m *MockTimeProvider) Today() string {
	return m.Now().Format("2006-01-02")
}

// Format returns the mock time formatted with the given layout.
func (m *MockTimeProvider) Format(layout string) string {
	return m.Now().Format(layout)
}

// Weekday returns the day of the week for the mock time.
func (m *MockTimeProvider) Weekday() string {
	return m.Now().Weekday().String()
}

// Compile-time checks.
var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)
