package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bwanab/music-build/config"
	"github.com/bwanab/music-build/track"
)

var inspectTrack int

func init() {
	inspectCmd.Flags().IntVar(&inspectTrack, "track", -1, "only this track index")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Print a file's sonorities",
	Long:  `Reads a MIDI file and prints the sonority stream per channel.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return inspect(args[0], cfg)
	},
}

func inspect(path string, cfg config.Config) error {
	tracks, f, err := convertFile(path, cfg)
	if err != nil {
		return err
	}

	if inspectTrack >= 0 {
		// fail fast on a bad index before any output
		single, err := track.Single(f.Tracks, inspectTrack)
		if err != nil {
			return err
		}
		tracks = track.Process(single, f.TPQN, track.Options{
			ChordTolerance: cfg.ChordTolerance,
			Percussion:     cfg.Percussion,
			BPM:            f.BPM,
		})
	}

	fmt.Printf("%s: tpqn=%d bpm=%g tracks=%d\n", path, f.TPQN, f.BPM, len(f.Tracks))
	for _, k := range sortedKeys(tracks) {
		st := tracks[k]
		fmt.Printf("%s %q (%s, program %d, %.3g quarters)\n",
			k, st.Name, st.Kind, st.Program, st.TotalDuration())
		for _, s := range st.Sonorities {
			fmt.Printf("  %s\n", s.Show())
		}
	}
	return nil
}
