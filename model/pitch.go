package model

import "gitlab.com/gomidi/midi/v2"

// KeyName renders a MIDI pitch as note name plus octave, C4 = 60.
func KeyName(key uint8) string {
	return midi.Note(key).String()
}

// PitchClass is the semitone within the octave, 0 = C.
func PitchClass(key uint8) uint8 {
	return key % 12
}

// KeyOctave is the scientific-pitch octave of a MIDI key (C4 = 60).
func KeyOctave(key uint8) int {
	return int(key)/12 - 1
}
