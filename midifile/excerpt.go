package midifile

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/bwanab/music-build/util"
)

// Excerpt copies an SMF keeping only note material at or after
// ticksOffset. Meta and control events are kept with their delta
// squeezed to at most one tick, so channel setup survives without
// reintroducing the skipped time.
func Excerpt(mf *smf.SMF, ticksOffset uint64) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks uint64
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			switch {
			case evt.Message.Is(midi.NoteOnMsg),
				evt.Message.Is(midi.NoteOffMsg):
				if absTicks >= ticksOffset {
					newTrack = append(newTrack, evt)
				}
			default:
				evt.Delta = util.Min(evt.Delta, 1)
				newTrack = append(newTrack, evt)
			}
		}
		res.Tracks = append(res.Tracks, newTrack)
	}
	return &res
}
