package provisioning

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	mu       sync.Mutex
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		events:   make([]Event, 0),
		messages: make([]string, 0),
		fields:   make(map[string]string),
	}
}

func (m *MockObserver) Printf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockObserver) Progress(phase string, current, total int) {
	m.Event(Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: "progress",
		Fields: map[string]string{
			"current": strconv.Itoa(current),
			"total":   strconv.Itoa(total),
		},
	})
}

// WithFields returns the receiver so that tests see every event.
func (m *MockObserver) WithFields(fields map[string]string) Observer {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range fields {
		m.fields[k] = v
	}
	return m
}

func (m *MockObserver) eventsOfType(t EventType) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newBufferObserver(buf *bytes.Buffer) *LogrObserver {
	log := funcr.New(func(prefix, args string) {
		buf.WriteString(args)
		buf.WriteString("\n")
	}, funcr.Options{Verbosity: 1})
	return NewLogrObserver(log)
}

func TestLogrObserver_Event(t *testing.T) {
	var buf bytes.Buffer
	observer := newBufferObserver(&buf)

	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    "network",
		Resource: "app-vpc",
		Message:  "vpc created",
		Fields: map[string]string{
			"type": "vpc",
			"id":   "vpc-0123",
		},
	})

	out := buf.String()
	assert.Contains(t, out, `"msg"="vpc created"`)
	assert.Contains(t, out, `"event"="resource.created"`)
	assert.Contains(t, out, `"resource"="app-vpc"`)
	assert.Less(t, strings.Index(out, `"id"=`), strings.Index(out, `"type"=`), "fields are sorted")
}

func TestLogrObserver_ErrorsAndProgress(t *testing.T) {
	var buf bytes.Buffer
	observer := newBufferObserver(&buf)

	LogPhaseFailed(observer, "image", assert.AnError)
	observer.Progress("network", 3, 6)

	out := buf.String()
	assert.Contains(t, out, `"msg"="failed: assert.AnError general error for testing"`)
	assert.Contains(t, out, `"current"="3"`)
	assert.Contains(t, out, `"total"="6"`)
}

func TestLogrObserver_WithFields(t *testing.T) {
	var buf bytes.Buffer
	observer := newBufferObserver(&buf).WithFields(map[string]string{"run": "run-1", "app": "shop"})

	observer.Printf("hello %s", "world")

	out := buf.String()
	assert.Contains(t, out, `"msg"="hello world"`)
	assert.Contains(t, out, `"app"="shop"`)
	assert.Contains(t, out, `"run"="run-1"`)
}

func TestLogHelpers(t *testing.T) {
	observer := NewMockObserver()

	LogPhaseStart(observer, "phase1")
	LogPhaseComplete(observer, "phase1", time.Second)
	LogPhaseFailed(observer, "phase2", assert.AnError)
	LogResourceCreating(observer, "network", "vpc", "app-vpc")
	LogResourceCreated(observer, "network", "vpc", "app-vpc", "vpc-1")
	LogResourceFailed(observer, "network", "subnet", "app Public Subnet-1", assert.AnError)
	LogResourceDeleted(observer, "image", "instance", "i-1")

	assert.Len(t, observer.events, 7)
	assert.Equal(t, EventPhaseStarted, observer.events[0].Type)
	assert.Equal(t, "completed in 1s", observer.events[1].Message)
	assert.Equal(t, "vpc-1", observer.events[4].Fields["id"])
	assert.Equal(t, EventResourceFailed, observer.events[5].Type)
	assert.Equal(t, "i-1", observer.events[6].Resource)
}
