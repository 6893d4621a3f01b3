package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "event added",
			fields:  Fields{"chat_id": "42"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "saving events failed",
			err:     errors.New("disk full"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			if !tt.want {
				assert.Zero(t, buf.Len())
				return
			}

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.message, entry["message"])
			assert.NotEmpty(t, entry["timestamp"])
			assert.NotContains(t, entry, "msg")
			assert.NotContains(t, entry, "time")
			for k, v := range tt.fields {
				assert.Equal(t, v, entry[k])
			}
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), entry["error"])
			}
		})
	}
}

func TestLogger_OneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)

	logger.Debug("one", nil)
	logger.Info("two", Fields{"k": 1})
	logger.Warn("three", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: " error ", want: LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("commands.add")
	m.IncrCounter("commands.add")
	m.IncrCounter("commands.add")

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	assert.Equal(t, int64(3), counters["commands.add"])
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("conversations.active", 2)
	m.SetGauge("conversations.active", 5)

	gauges := m.GetSnapshot()["gauges"].(map[string]float64)
	assert.Equal(t, 5.0, gauges["conversations.active"])
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("telegram.get_updates", 100*time.Millisecond)
	m.RecordTiming("telegram.get_updates", 200*time.Millisecond)
	m.RecordTiming("telegram.get_updates", 150*time.Millisecond)

	timings := m.GetSnapshot()["timings"].(map[string]map[string]interface{})
	stats := timings["telegram.get_updates"]

	assert.Equal(t, 3, stats["count"])
	assert.Equal(t, "100ms", stats["min"])
	assert.Equal(t, "200ms", stats["max"])
	assert.Equal(t, "150ms", stats["average"])
}

func TestMetrics_TimingMemoryIsConstant(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 10000; i++ {
		m.RecordTiming("telegram.get_updates", time.Duration(i)*time.Millisecond)
	}

	m.mu.Lock()
	assert.Len(t, m.timings, 1)
	assert.Equal(t, 10000, m.timings["telegram.get_updates"].count)
	m.mu.Unlock()

	stats := m.GetSnapshot()["timings"].(map[string]map[string]interface{})["telegram.get_updates"]
	assert.Equal(t, 10000, stats["count"])
	assert.Equal(t, "1ms", stats["min"])
	assert.Equal(t, "10s", stats["max"])
	assert.Equal(t, "5.0005s", stats["average"])
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(New(LevelInfo, &bytes.Buffer{}))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 4)

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snapshot := GetMetricsSnapshot()
	require.NotNil(t, snapshot)
	assert.GreaterOrEqual(t, snapshot["counters"].(map[string]int64)["test"], int64(1))
}
