package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/bwanab/music-build/config"
	"github.com/bwanab/music-build/midifile"
	"github.com/bwanab/music-build/model"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long:  `Serves POST /analyze: MIDI file bytes in, sonority stream as JSON out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

type server struct {
	cfg    config.Config
	logger *charmlog.Logger
}

func serve(cfg config.Config) error {
	s := &server{
		cfg: cfg,
		logger: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			Prefix:          "serve",
		}),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.logger.Info("listening", "addr", serveAddr)
	return http.ListenAndServe(serveAddr, cors.Default().Handler(router))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()
	logger := s.logger.With("request", reqID)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, logger, http.StatusBadRequest, err)
		return
	}
	parsed, err := readSMFBytes(body)
	if err != nil {
		s.fail(w, logger, http.StatusUnprocessableEntity, err)
		return
	}

	f := midifile.FromSMF(parsed)
	tracks, err := convertParsed(f, s.cfg)
	if err != nil {
		s.fail(w, logger, http.StatusUnprocessableEntity, err)
		return
	}

	res := model.AnalyzeResponse{TPQN: f.TPQN, BPM: f.BPM}
	for _, k := range sortedKeys(tracks) {
		st := tracks[k]
		dto := model.TrackDTO{
			Key:     k.String(),
			Name:    st.Name,
			Kind:    st.Kind.String(),
			Program: st.Program,
		}
		for _, son := range st.Sonorities {
			dto.Sonorities = append(dto.Sonorities, model.ToDTO(son))
		}
		res.Tracks = append(res.Tracks, dto)
	}

	logger.Info("analyzed", "bytes", len(body), "stracks", len(tracks))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (s *server) fail(w http.ResponseWriter, logger *charmlog.Logger, status int, err error) {
	logger.Error("analyze failed", "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func readSMFBytes(data []byte) (parsed *smf.SMF, err error) {
	// the smf parser panics on some malformed input
	defer func() {
		if r, ok := recover().(string); ok {
			err = errors.New(r)
		}
	}()
	return smf.ReadFrom(bytes.NewReader(data))
}
