package model

import "fmt"

// TrackKind says how an STrack's sonorities were keyed.
type TrackKind uint8

const (
	KindInstrument TrackKind = iota
	KindPercussion
)

func (k TrackKind) String() string {
	if k == KindPercussion {
		return "percussion"
	}
	return "instrument"
}

// TrackKey identifies one STrack in a conversion result. Regular tracks
// are keyed by channel, percussion tracks by MIDI pitch; the two key
// spaces never collide because of the Percussion flag.
type TrackKey struct {
	Percussion bool
	Num        uint8
}

func ChannelKey(ch uint8) TrackKey { return TrackKey{Num: ch} }

func PercussionKey(key uint8) TrackKey { return TrackKey{Percussion: true, Num: key} }

func (k TrackKey) String() string {
	if k.Percussion {
		return fmt.Sprintf("perc%d", k.Num)
	}
	return fmt.Sprintf("ch%d", k.Num)
}

// STrack is one channel's (or one percussion pitch's) worth of music as
// an ordered sonority sequence. It is the durable output of a read pass
// and the input to the write pass.
type STrack struct {
	Name       string
	Kind       TrackKind
	TPQN       uint32
	Program    uint8
	BPM        float64
	Sonorities []Sonority
}

// TotalDuration sums the sonorities, in quarter notes.
func (t *STrack) TotalDuration() float64 {
	var total float64
	for _, s := range t.Sonorities {
		total += s.Duration()
	}
	return total
}
