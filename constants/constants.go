package constants

import "os"

// GetInstrumentCSV locates the program-number → instrument-name table.
func GetInstrumentCSV() string {
	if path := os.Getenv("INSTRUMENT_CSV"); path != "" {
		return path
	}
	return "./data/midi_instruments.csv"
}

// GetPercussionCSV locates the MIDI-pitch → drum-name table.
func GetPercussionCSV() string {
	if path := os.Getenv("PERCUSSION_CSV"); path != "" {
		return path
	}
	return "./data/midi_percussion.csv"
}

// DefaultTPQN is used when writing files from scratch.
const DefaultTPQN = 960

// DefaultBPM is assumed when a file carries no tempo event.
const DefaultBPM = 120

// DefaultChordTolerance is the onset window, in ticks, within which
// near-simultaneous notes group into one chord.
const DefaultChordTolerance = 0
