package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/transcribe"
)

const maxRequestBytes = 256 << 20

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", constants.GetPort(), "port to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves transcriptions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return http.ListenAndServe(":"+servePort, NewRouter())
	},
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", HandleTranscribe).Methods("POST")
	router.HandleFunc("/transcriptions/{id}", HandleGetTranscription).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

// statusFor maps the error taxonomy onto HTTP: bad input is the caller's fault.
func statusFor(err error) int {
	var shapeErr *model.ShapeError
	var configErr *model.ConfigError
	var arithErr *model.ArithmeticError
	if errors.As(err, &shapeErr) || errors.As(err, &configErr) || errors.As(err, &arithErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}

	var input model.TranscribeRequest
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}

	opts := transcribe.DefaultOptions()
	opts.Apply(input.Options)

	id := uuid.New().String()
	res, err := transcribe.FromFile(r.Context(), input.ActivationFile, opts)
	if err != nil {
		log.Warnf("Transcription %v failed: %v", id, err)
		writeError(w, statusFor(err), err)
		return
	}
	log.Infof("Transcription %v: %v notes, %v bytes", id, len(res.Notes), len(res.MIDI))

	if err := recordTranscription(id, r.RemoteAddr, res); err != nil {
		log.Warnf("Could not record transcription %v: %v", id, err)
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("X-Transcription-Id", id)
	w.Header().Set("X-Note-Count", strconv.Itoa(len(res.Notes)))
	w.Write(res.MIDI)
}

func HandleGetTranscription(w http.ResponseWriter, r *http.Request) {
	recorder, err := getRecorder()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t, err := recorder.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, errors.New("no such transcription"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}
