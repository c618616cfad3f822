// Package names loads the instrument and percussion display-name
// tables. Both are optional CSV files: a header row then key,name
// rows. A missing file yields an empty table, and rows that fail to
// parse are skipped, never fatal.
package names

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Table maps a program number or percussion pitch to a display name.
type Table = map[uint8]string

// LoadInstruments reads the program-number → instrument-name table.
func LoadInstruments(path string) Table {
	return loadCSV(path)
}

// LoadPercussion reads the MIDI-pitch → drum-name table.
func LoadPercussion(path string) Table {
	return loadCSV(path)
}

func loadCSV(path string) Table {
	table := make(Table)
	f, err := os.Open(path)
	if err != nil {
		return table
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if first {
			first = false
			continue
		}
		if len(rec) < 2 {
			continue
		}
		key, err := strconv.ParseUint(rec[0], 10, 8)
		if err != nil {
			continue
		}
		table[uint8(key)] = rec[1]
	}
	return table
}
