package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/bwanab/music-build/config"
	"github.com/bwanab/music-build/midifile"
	"github.com/bwanab/music-build/model"
	"github.com/bwanab/music-build/names"
	"github.com/bwanab/music-build/track"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "music-build",
	Short: "Convert MIDI event streams to sonorities and back",
	Long: `music-build reads standard MIDI files into a structured sequence of
sonorities (notes, chords, rests, controller and pitch bend markers)
and writes such sequences back out, preserving exact timing.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "music-build.yaml", "config file")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// convertFile runs the whole read pipeline for one file.
func convertFile(path string, cfg config.Config) (map[model.TrackKey]*model.STrack, *midifile.File, error) {
	f, err := midifile.Read(path)
	if err != nil {
		return nil, nil, err
	}
	tracks, err := convertParsed(f, cfg)
	return tracks, f, err
}

func convertParsed(f *midifile.File, cfg config.Config) (map[model.TrackKey]*model.STrack, error) {
	bpm := f.BPM
	if bpm == 0 {
		bpm = cfg.BPM
	}
	opts := track.Options{
		ChordTolerance: cfg.ChordTolerance,
		Percussion:     cfg.Percussion,
		BPM:            bpm,
		Instruments:    names.LoadInstruments(cfg.InstrumentCSV),
		Percussions:    names.LoadPercussion(cfg.PercussionCSV),
	}
	return track.ProcessAll(f.Tracks, f.TPQN, opts)
}

// sortedKeys orders a result map: channels first, then percussion
// pitches, each ascending.
func sortedKeys(m map[model.TrackKey]*model.STrack) []model.TrackKey {
	keys := make([]model.TrackKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func keyLess(a, b model.TrackKey) bool {
	if a.Percussion != b.Percussion {
		return !a.Percussion
	}
	return a.Num < b.Num
}
