package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/GHutch55/anagrams/api/v1/models"
)

// StreamIdleTimeout closes websocket sessions with no incoming frame for
// this long
const StreamIdleTimeout = 60 * time.Second

// StreamFrameWindow is the window a session's frame budget applies to
const StreamFrameWindow = time.Minute

// StreamHandler serves anagram generation over a websocket, one reply frame
// per request frame
type StreamHandler struct {
	Anagrams *AnagramHandler
	// FrameLimit caps request frames per session per StreamFrameWindow;
	// zero means unlimited
	FrameLimit int
	upgrader   websocket.Upgrader
}

// NewStreamHandler creates a StreamHandler accepting browser connections
// from allowedOrigins ("*" allows any) and answering at most frameLimit
// frames per session per minute
func NewStreamHandler(h *AnagramHandler, allowedOrigins []string, frameLimit int) *StreamHandler {
	return &StreamHandler{
		Anagrams:   h,
		FrameLimit: frameLimit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeHTTP handles GET /ws/generate-anagram
func (s *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		log.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	logger := log.With().Str("session", session).Str("remote", r.RemoteAddr).Logger()
	logger.Debug().Msg("Websocket session opened")

	conn.SetReadLimit(MaxBodyBytes)
	budget := frameBudget{limit: s.FrameLimit, window: StreamFrameWindow}

	for {
		if err := conn.SetReadDeadline(time.Now().Add(StreamIdleTimeout)); err != nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("Websocket session ended")
			} else {
				logger.Debug().Msg("Websocket session closed")
			}
			return
		}

		var reply models.StreamResponse
		if budget.allow(time.Now()) {
			reply = s.handleFrame(data, session)
		} else {
			reply = models.StreamResponse{
				Status: "error",
				Code:   http.StatusTooManyRequests,
				Detail: DetailTooManyRequests,
			}
		}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Msg("Failed to write websocket reply")
			return
		}
	}
}

func (s *StreamHandler) handleFrame(data []byte, session string) models.StreamResponse {
	var req models.AnagramRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.StreamResponse{
			Status: "error",
			Code:   http.StatusUnprocessableEntity,
			Detail: models.ValidationIssues(err),
		}
	}

	res := s.Anagrams.process(&req, session)
	if res.status != http.StatusOK {
		return models.StreamResponse{
			Status: "error",
			Code:   res.status,
			Detail: res.detail,
		}
	}

	return models.StreamResponse{
		Status:   "success",
		Anagrams: res.anagrams,
	}
}

// frameBudget is a fixed-window frame counter for one session
type frameBudget struct {
	limit  int
	window time.Duration
	start  time.Time
	count  int
}

func (b *frameBudget) allow(now time.Time) bool {
	if b.limit <= 0 {
		return true
	}
	if b.start.IsZero() || now.Sub(b.start) >= b.window {
		b.start = now
		b.count = 0
	}
	if b.count >= b.limit {
		return false
	}
	b.count++
	return true
}
