package event

import (
	"sort"

	"github.com/bwanab/music-build/model"
)

type soundingKey struct {
	ch  uint8
	key uint8
}

type soundingNote struct {
	start int64
	vel   uint8
}

// IdentifySonorityEvents walks one track's events and extracts the
// material that becomes sonorities: note intervals from on/off pairing,
// plus instantaneous controller and pitch bend events.
//
// Pairing rules:
//   - note-on with velocity > 0 opens an interval for (channel, key);
//     a second note-on for an already-open key replaces it, last on wins
//   - note-off, or note-on with velocity 0, closes the open interval;
//     with no open interval the event is malformed and dropped
//   - intervals still open at end of stream close at the last absolute
//     time seen, so truncated tracks still yield playable notes
func IdentifySonorityEvents(events []model.RawEvent) model.SonorityEvents {
	var res model.SonorityEvents
	sounding := make(map[soundingKey]soundingNote)

	timed := AddAbsoluteTimes(events)
	var last int64
	for _, te := range timed {
		last = te.AbsTicks
		switch te.Kind {
		case model.KindNoteOn:
			if te.Velocity == 0 {
				res.Notes = closeNote(res.Notes, sounding, te)
				continue
			}
			sounding[soundingKey{te.Channel, te.Note}] = soundingNote{start: te.AbsTicks, vel: te.Velocity}
		case model.KindNoteOff:
			res.Notes = closeNote(res.Notes, sounding, te)
		case model.KindController:
			res.Controller = append(res.Controller, model.ControllerEvent{
				AbsTicks: te.AbsTicks,
				Channel:  te.Channel,
				CC:       te.CC,
				Value:    te.CCValue,
			})
		case model.KindPitchBend:
			res.PitchBends = append(res.PitchBends, model.PitchBendEvent{
				AbsTicks: te.AbsTicks,
				Channel:  te.Channel,
				Value:    te.Bend,
			})
		}
	}

	// Close anything still sounding at the end of the track.
	for k, open := range sounding {
		res.Notes = append(res.Notes, model.NoteInterval{
			Key:      k.key,
			Channel:  k.ch,
			Velocity: open.vel,
			Start:    open.start,
			End:      last,
		})
	}

	sort.SliceStable(res.Notes, func(i, j int) bool {
		if res.Notes[i].Start != res.Notes[j].Start {
			return res.Notes[i].Start < res.Notes[j].Start
		}
		return res.Notes[i].Key < res.Notes[j].Key
	})
	return res
}

func closeNote(notes []model.NoteInterval, sounding map[soundingKey]soundingNote, te model.TimedEvent) []model.NoteInterval {
	k := soundingKey{te.Channel, te.Note}
	open, ok := sounding[k]
	if !ok {
		// note-off with nothing sounding, drop it
		return notes
	}
	delete(sounding, k)
	return append(notes, model.NoteInterval{
		Key:      te.Note,
		Channel:  te.Channel,
		Velocity: open.vel,
		Start:    open.start,
		End:      te.AbsTicks,
	})
}
