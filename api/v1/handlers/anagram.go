package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GHutch55/anagrams/anagram"
	"github.com/GHutch55/anagrams/api/v1/models"
	"github.com/GHutch55/anagrams/metrics"
)

// MaxBodyBytes caps generate request bodies
const MaxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// AnagramHandler serves anagram generation over HTTP and websocket
type AnagramHandler struct {
	Generator *anagram.Generator
	Validate  *validator.Validate
	Metrics   *metrics.Metrics
}

// NewAnagramHandler creates an AnagramHandler; a nil generator uses the
// default random source and a nil m disables metrics
func NewAnagramHandler(gen *anagram.Generator, m *metrics.Metrics) *AnagramHandler {
	if gen == nil {
		gen = anagram.NewGenerator(nil)
	}
	return &AnagramHandler{
		Generator: gen,
		Validate:  models.NewValidator(),
		Metrics:   m,
	}
}

// outcome is the transport independent result of one request
type outcome struct {
	anagrams []string
	status   int
	detail   interface{}
}

// GenerateAnagram handles POST /generate-anagram
func (h *AnagramHandler) GenerateAnagram(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req models.AnagramRequest
	if err := decodeBody(r.Body, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			SendDetail(w, DetailBodyTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		SendValidationError(w, models.ValidationIssues(err))
		return
	}

	res := h.process(&req, middleware.GetReqID(r.Context()))
	if res.status != http.StatusOK {
		SendDetail(w, res.detail, res.status)
		return
	}

	SendJSON(w, models.AnagramResponse{
		Status:   "success",
		Anagrams: res.anagrams,
	}, http.StatusOK)
}

// decodeBody decodes exactly one JSON value from body
func decodeBody(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errTrailingData
	}
	return nil
}

// process validates req and runs the generator
func (h *AnagramHandler) process(req *models.AnagramRequest, requestID string) outcome {
	if err := h.Validate.Struct(req); err != nil {
		return outcome{
			status: http.StatusUnprocessableEntity,
			detail: models.ValidationIssues(err),
		}
	}

	anagrams, err := h.Generator.Generate(*req.InputText)
	switch {
	case err == nil:
		h.Metrics.IncGeneration(metrics.ResultSuccess)
		h.Metrics.ObserveResultSize(len(anagrams))
		return outcome{anagrams: anagrams, status: http.StatusOK}
	case errors.Is(err, anagram.ErrEmptyInput):
		h.Metrics.IncGeneration(metrics.ResultEmptyInput)
		return outcome{status: http.StatusBadRequest, detail: DetailEmptyInput}
	case errors.Is(err, anagram.ErrGenerationFailed):
		h.Metrics.IncGeneration(metrics.ResultFailed)
		log.Warn().
			Str("request_id", requestID).
			Int("input_len", len([]rune(*req.InputText))).
			Int("attempts", anagram.MaxAttempts).
			Msg("No distinct anagram found")
		return outcome{status: http.StatusInternalServerError, detail: DetailGenerationFailed}
	default:
		log.Error().Err(err).Str("request_id", requestID).Msg("Anagram generation error")
		return outcome{status: http.StatusInternalServerError, detail: DetailUnexpected}
	}
}
