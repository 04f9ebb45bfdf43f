package testutil

import "github.com/warroomhq/warroom/internal/notify"

// CaptureSink records every emitted notification for assertions.
type CaptureSink struct {
	Events []CapturedEvent
}

type CapturedEvent struct {
	Event notify.Event
	Opts  notify.Options
}

func (s *CaptureSink) Emit(e notify.Event, o notify.Options) {
	s.Events = append(s.Events, CapturedEvent{Event: e, Opts: o})
}

// Titles returns the emitted event titles in order.
func (s *CaptureSink) Titles() []string {
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.Event.Title)
	}
	return out
}
