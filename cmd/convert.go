package cmd

import (
	"bytes"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer"

	"github.com/bwanab/music-build/config"
	"github.com/bwanab/music-build/midifile"
)

var (
	convertQuantize   bool
	convertStartTicks uint64
	convertTolerance  int64
)

func init() {
	convertCmd.Flags().BoolVar(&convertQuantize, "quantize", false, "quantize input before converting")
	convertCmd.Flags().Uint64Var(&convertStartTicks, "start-ticks", 0, "drop notes before this absolute tick")
	convertCmd.Flags().Int64Var(&convertTolerance, "tolerance", -1, "chord tolerance in ticks (overrides config)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <in.mid> <out.mid>",
	Short: "Round-trip a file through the sonority representation",
	Long: `Reads a MIDI file, converts it to sonorities, and emits those
sonorities back into a new MIDI file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if convertTolerance >= 0 {
			cfg.ChordTolerance = convertTolerance
		}
		return convert(args[0], args[1], cfg)
	},
}

func convert(in, out string, cfg config.Config) error {
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Prefix:          "convert",
	})

	s, err := midifile.ReadSMF(in)
	if err != nil {
		return err
	}
	if convertStartTicks > 0 {
		logger.Info("excerpting", "from_ticks", convertStartTicks)
		s = midifile.Excerpt(s, convertStartTicks)
	}
	if convertQuantize {
		logger.Info("quantizing input")
		s, err = quantizeSMF(s)
		if err != nil {
			return err
		}
	}

	f := midifile.FromSMF(s)
	tracks, err := convertParsed(f, cfg)
	if err != nil {
		return err
	}
	logger.Info("converted", "file", in, "stracks", len(tracks), "tpqn", f.TPQN, "bpm", f.BPM)

	if err := midifile.Write(out, tracks, f.TPQN, f.BPM); err != nil {
		return err
	}
	logger.Info("wrote", "file", out)
	return nil
}

func quantizeSMF(s *smf.SMF) (*smf.SMF, error) {
	var bf bytes.Buffer
	if _, err := s.WriteTo(&bf); err != nil {
		return nil, err
	}
	if err := quantizer.Quantize(&bf, &bf); err != nil {
		return nil, err
	}
	return smf.ReadTracksFrom(&bf).SMF(), nil
}
