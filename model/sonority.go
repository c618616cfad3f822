package model

import (
	"fmt"
	"strings"
)

// Sonority is one unit of musical content: something with a duration
// (Note, Chord, Rest, Arpeggio) or an instantaneous control event
// (Controller, PitchBend). The set is closed; consumers type-switch
// over the concrete types.
type Sonority interface {
	// Duration in quarter notes. Zero for Controller and PitchBend.
	Duration() float64
	// Channel the sonority plays on.
	Channel() uint8
	// Notes the sonority sounds, in low-to-high (or playing) order.
	// Empty for Rest, Controller and PitchBend.
	Notes() []Note
	// Show renders a short human-readable form.
	Show() string

	sonority()
}

// Quality names a chord shape from the recognizer's table.
type Quality uint8

const (
	QualityUnknown Quality = iota
	QualityMajor
	QualityMinor
	QualityDominant7
	QualityMajor7
	QualityMinor7
	QualityDiminished
	QualityAugmented
	QualitySus4
	QualitySus2
)

func (q Quality) String() string {
	switch q {
	case QualityMajor:
		return "maj"
	case QualityMinor:
		return "min"
	case QualityDominant7:
		return "7"
	case QualityMajor7:
		return "maj7"
	case QualityMinor7:
		return "min7"
	case QualityDiminished:
		return "dim"
	case QualityAugmented:
		return "aug"
	case QualitySus4:
		return "sus4"
	case QualitySus2:
		return "sus2"
	default:
		return "?"
	}
}

type Note struct {
	Key uint8 // MIDI pitch 0..127
	Dur float64
	Vel uint8
	Ch  uint8
}

func (n Note) Duration() float64 { return n.Dur }
func (n Note) Channel() uint8    { return n.Ch }
func (n Note) Notes() []Note     { return []Note{n} }
func (n Note) Show() string      { return fmt.Sprintf("%s:%.3g", KeyName(n.Key), n.Dur) }
func (Note) sonority()           {}

// Chord is either a recognized shape (Quality != QualityUnknown, Root is
// the shape's root pitch) or a raw unnamed cluster. Either way the
// constituent notes actually sounding are carried in notes, so emission
// never needs the shape table.
type Chord struct {
	Root      uint8
	Quality   Quality
	Inversion int
	Dur       float64
	Vel       uint8
	Ch        uint8
	// Additions are sounding pitches outside the recognized shape.
	Additions []uint8
	// Omissions are shape intervals (semitones from root) nobody plays.
	Omissions []uint8

	notes []Note
}

// NewChord builds a chord from its realized notes. The caller fills the
// recognition fields; a QualityUnknown chord is the raw fallback.
func NewChord(notes []Note, root uint8, quality Quality, vel, ch uint8) Chord {
	return Chord{Root: root, Quality: quality, Vel: vel, Ch: ch, notes: notes}
}

func (c Chord) Duration() float64 { return c.Dur }
func (c Chord) Channel() uint8    { return c.Ch }

func (c Chord) Notes() []Note {
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	for i := range out {
		out[i].Dur = c.Dur
		out[i].Ch = c.Ch
	}
	return out
}

// Octave of the chord root, in scientific pitch notation (C4 = 60).
func (c Chord) Octave() int { return int(c.Root)/12 - 1 }

func (c Chord) Show() string {
	if c.Quality == QualityUnknown {
		parts := make([]string, len(c.notes))
		for i, n := range c.notes {
			parts[i] = KeyName(n.Key)
		}
		return fmt.Sprintf("[%s]:%.3g", strings.Join(parts, " "), c.Dur)
	}
	return fmt.Sprintf("%s%s:%.3g", KeyName(c.Root), c.Quality, c.Dur)
}

func (Chord) sonority() {}

// WithDuration returns a copy of the chord lasting d quarter notes.
func (c Chord) WithDuration(d float64) Chord {
	c.Dur = d
	return c
}

type Rest struct {
	Dur float64
	Ch  uint8
}

func (r Rest) Duration() float64 { return r.Dur }
func (r Rest) Channel() uint8    { return r.Ch }
func (r Rest) Notes() []Note     { return nil }
func (r Rest) Show() string      { return fmt.Sprintf("rest:%.3g", r.Dur) }
func (Rest) sonority()           {}

// Arpeggio plays its notes one after another rather than together.
type Arpeggio struct {
	Seq []Note
	Ch  uint8
}

func (a Arpeggio) Duration() float64 {
	var total float64
	for _, n := range a.Seq {
		total += n.Dur
	}
	return total
}

func (a Arpeggio) Channel() uint8 { return a.Ch }

func (a Arpeggio) Notes() []Note {
	out := make([]Note, len(a.Seq))
	copy(out, a.Seq)
	return out
}

func (a Arpeggio) Show() string {
	parts := make([]string, len(a.Seq))
	for i, n := range a.Seq {
		parts[i] = n.Show()
	}
	return "arp(" + strings.Join(parts, " ") + ")"
}

func (Arpeggio) sonority() {}

type Controller struct {
	CC    uint8
	Value uint8
	Ch    uint8
}

func (c Controller) Duration() float64 { return 0 }
func (c Controller) Channel() uint8    { return c.Ch }
func (c Controller) Notes() []Note     { return nil }
func (c Controller) Show() string      { return fmt.Sprintf("cc%d=%d", c.CC, c.Value) }
func (Controller) sonority()           {}

type PitchBend struct {
	Value uint16 // 14-bit, 8192 = center
	Ch    uint8
}

func (p PitchBend) Duration() float64 { return 0 }
func (p PitchBend) Channel() uint8    { return p.Ch }
func (p PitchBend) Notes() []Note     { return nil }
func (p PitchBend) Show() string      { return fmt.Sprintf("bend=%d", p.Value) }
func (PitchBend) sonority()           {}
