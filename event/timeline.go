// Package event turns a flat delta-timed MIDI event list into absolute
// time and pairs note-on/note-off messages into sounding intervals.
package event

import "github.com/bwanab/music-build/model"

// AddAbsoluteTimes tags every event with its absolute tick position by
// running a cumulative sum of delta times.
func AddAbsoluteTimes(events []model.RawEvent) []model.TimedEvent {
	timed := make([]model.TimedEvent, 0, len(events))
	var abs int64
	for _, ev := range events {
		abs += int64(ev.Delta)
		timed = append(timed, model.TimedEvent{RawEvent: ev, AbsTicks: abs})
	}
	return timed
}

// DeltaTimes is the inverse of AddAbsoluteTimes: it re-derives delta
// times from absolute positions.
func DeltaTimes(timed []model.TimedEvent) []model.RawEvent {
	events := make([]model.RawEvent, 0, len(timed))
	var prev int64
	for _, te := range timed {
		ev := te.RawEvent
		ev.Delta = uint32(te.AbsTicks - prev)
		prev = te.AbsTicks
		events = append(events, ev)
	}
	return events
}
