package model

// EventKind discriminates RawEvent payloads.
type EventKind uint8

const (
	KindNoteOn EventKind = iota
	KindNoteOff
	KindController
	KindPitchBend
	KindProgram
	KindSeqName
	KindTrackEnd
	KindOther
)

func (k EventKind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindController:
		return "controller"
	case KindPitchBend:
		return "pitch_bend"
	case KindProgram:
		return "program"
	case KindSeqName:
		return "seq_name"
	case KindTrackEnd:
		return "track_end"
	default:
		return "other"
	}
}

// RawEvent is one timestamped MIDI message as a library-neutral struct.
// Delta is ticks since the previous event in the same track. Only the
// fields relevant to Kind are meaningful; the rest stay zero.
type RawEvent struct {
	Kind     EventKind
	Delta    uint32
	Channel  uint8
	Note     uint8
	Velocity uint8
	CC       uint8
	CCValue  uint8
	Bend     uint16 // 14-bit, 8192 = center
	Program  uint8
	Text     string
}

// TimedEvent is a RawEvent tagged with its absolute tick position.
type TimedEvent struct {
	RawEvent
	AbsTicks int64
}

// NoteInterval is a paired note-on/note-off with absolute tick bounds.
type NoteInterval struct {
	Key      uint8
	Channel  uint8
	Velocity uint8
	Start    int64
	End      int64
}

// ControllerEvent is an instantaneous control change at an absolute time.
type ControllerEvent struct {
	AbsTicks int64
	Channel  uint8
	CC       uint8
	Value    uint8
}

// PitchBendEvent is an instantaneous pitch wheel position at an absolute time.
type PitchBendEvent struct {
	AbsTicks int64
	Channel  uint8
	Value    uint16 // 14-bit, 8192 = center
}

// SonorityEvents is everything the pairing pass extracts from one track.
type SonorityEvents struct {
	Notes      []NoteInterval
	Controller []ControllerEvent
	PitchBends []PitchBendEvent
}

// PercussionChannel is the conventional drum channel (0-based).
const PercussionChannel = 9
