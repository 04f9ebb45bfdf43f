package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type panickySink struct{}

func (panickySink) Emit(Event, Options) {
	panic("sink exploded")
}

func TestEmit_NilSinkIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, Event{Title: "hello"}, Options{})
	})
}

func TestEmit_SwallowsSinkPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(panickySink{}, Event{Title: "hello"}, Options{Toast: true})
	})
}

func TestSlogSink_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlogSink(&buf)

	sink.Emit(Event{Level: LevelSuccess, Title: "Move activated", Detail: "m1"}, Options{Toast: true})

	out := buf.String()
	assert.Contains(t, out, "Move activated")
	assert.Contains(t, out, "toast=true")
	assert.Contains(t, out, "detail=m1")
}

func TestNewSlogSink_NilWriterIsNoop(t *testing.T) {
	sink := NewSlogSink(nil)
	assert.NotPanics(t, func() {
		sink.Emit(Event{Title: "x"}, Options{})
	})
}
