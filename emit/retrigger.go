package emit

import "github.com/bwanab/music-build/model"

// SuppressRetriggers collapses a note-off and a note-on for the same
// channel and pitch at the same absolute time into one time marker, so
// a pitch sustained across a chord boundary is not audibly re-struck.
// The pair need not be adjacent: a chord's other zero-delta note-offs
// may sit between them. The marker keeps the note-off's delta and the
// consumed note-on carried no delta, so total elapsed time is
// conserved.
func SuppressRetriggers(events []model.RawEvent) []model.RawEvent {
	consumed := make([]bool, len(events))
	out := make([]model.RawEvent, 0, len(events))
	for i, ev := range events {
		if consumed[i] {
			continue
		}
		if ev.Kind == model.KindNoteOff && ev.Note != 0 {
			if j := retriggerAt(events, consumed, i); j >= 0 {
				consumed[j] = true
				out = append(out, timeMarker(ev.Delta, ev.Channel))
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// retriggerAt scans the zero-delta run after the note-off at i for a
// note-on re-striking the same channel and pitch. The run ends at the
// first event carrying time.
func retriggerAt(events []model.RawEvent, consumed []bool, i int) int {
	off := events[i]
	for j := i + 1; j < len(events); j++ {
		if events[j].Delta != 0 {
			return -1
		}
		if consumed[j] {
			continue
		}
		if events[j].Kind == model.KindNoteOn &&
			events[j].Channel == off.Channel &&
			events[j].Note == off.Note {
			return j
		}
	}
	return -1
}
