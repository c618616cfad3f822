package cmd

import (
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/bwanab/music-build/chord"
)

var listenPort int

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", 0, "MIDI in-port index")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Recognize chords from a live MIDI input",
	Long: `Listens to a MIDI in-port and names the chord currently held,
debounced so a strummed or slightly loose attack reads as one chord.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listen()
	},
}

func listen() error {
	defer midi.CloseDriver()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Prefix:          "listen",
	})

	in, err := midi.InPort(listenPort)
	if err != nil {
		return err
	}
	logger.Info("listening", "port", in.String())

	var (
		mu      sync.Mutex
		held    = make(map[uint8]uint8) // key → velocity
		settled = debounce.New(50 * time.Millisecond)
	)

	report := func() {
		mu.Lock()
		keys := make([]uint8, 0, len(held))
		vels := make([]uint8, 0, len(held))
		for k, v := range held {
			keys = append(keys, k)
			vels = append(vels, v)
		}
		mu.Unlock()

		if len(keys) < 2 {
			return
		}
		c, err := chord.Recognize(keys, vels, 0)
		if err != nil {
			c = chord.Raw(keys, vels, 0)
		}
		logger.Info("chord", "name", c.Show(), "notes", len(keys))
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			mu.Lock()
			held[key] = vel
			mu.Unlock()
			settled(report)
		case msg.GetNoteEnd(&ch, &key):
			mu.Lock()
			delete(held, key)
			mu.Unlock()
			settled(report)
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	logger.Info("stopping")
	return nil
}
