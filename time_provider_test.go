package agentexec

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeProvider(t *testing.T) {
	tp := NewDefaultTimeProvider()

	before := time.Now()
	now := tp.Now()
	after := time.Now()
	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))

	assert.Contains(t,
		[]string{before.Format("2006-01-02"), after.Format("2006-01-02")}, tp.Today())
	assert.Contains(t,
		[]string{before.Weekday().String(), after.Weekday().String()}, tp.Weekday())
}

func TestMockTimeProvider(t *testing.T) {
	type expected struct {
		today   string
		weekday string
		clock   string
	}

	start := time.Date(2025, 2, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    func(m *MockTimeProvider)
		expected expected
	}{
		{
			name:     "fixed time",
			input:    func(*MockTimeProvider) {},
			expected: expected{today: "2025-02-15", weekday: "Saturday", clock: "14:30"},
		},
		{
			name:     "advance crosses midnight",
			input:    func(m *MockTimeProvider) { m.Advance(10 * time.Hour) },
			expected: expected{today: "2025-02-16", weekday: "Sunday", clock: "00:30"},
		},
		{
			name: "set time",
			input: func(m *MockTimeProvider) {
				m.SetTime(time.Date(2024, 12, 31, 9, 5, 0, 0, time.UTC))
			},
			expected: expected{today: "2024-12-31", weekday: "Tuesday", clock: "09:05"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMockTimeProvider(start)
			tc.input(m)

			assert.Equal(t, tc.expected.today, m.Today())
			assert.Equal(t, tc.expected.weekday, m.Weekday())
			assert.Equal(t, tc.expected.clock, m.Format("15:04"))
		})
	}
}

func TestMockTimeProvider_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	m := NewMockTimeProvider(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Advance(time.Second)
			_ = m.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Second), m.Now())
}
