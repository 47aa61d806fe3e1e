// Package web serves the companion's animated face and its control
// surface. The face is a canvas in the browser driven by a 50 fps
// websocket stream of animation frames; buttons on the same page
// toggle listening, reset the conversation, and quit.
package web

import (
	"context"
	"embed"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-deskbot/pkg/face"
	"github.com/teslashibe/go-deskbot/pkg/hub"
)

//go:embed static/index.html
var static embed.FS

// Status is what the dashboard shows about the companion.
type Status struct {
	Listening       bool   `json:"listening"`
	Speaking        bool   `json:"speaking"`
	VoiceEnabled    bool   `json:"voice_enabled"`
	FaceTracking    bool   `json:"face_tracking"`
	TTSAvailable    bool   `json:"tts_available"`
	StatusText      string `json:"status_text"`
	LastUserMessage string `json:"last_user_message"`
	LastReply       string `json:"last_reply"`
}

// Server is the face and control server.
type Server struct {
	app  *fiber.App
	port string

	status   Status
	statusMu sync.RWMutex

	// Hubs for websocket broadcast (thread-safe!)
	faceHub   *hub.Hub
	statusHub *hub.Hub

	logger *slog.Logger

	// OnToggleListening flips voice capture and returns the new state.
	OnToggleListening func() bool

	// OnResetConversation clears the chat history.
	OnResetConversation func()

	// OnQuit asks the application to shut down.
	OnQuit func()
}

// NewServer creates the face server on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		status:    Status{StatusText: "Ready"},
		faceHub:   hub.New("face"),
		statusHub: hub.New("status"),
		logger:    slog.Default().With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Deskbot",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/listening/toggle", s.handleToggleListening)
	api.Post("/conversation/reset", s.handleResetConversation)
	api.Post("/quit", s.handleQuit)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/face", websocket.New(s.handleFaceWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the hubs and listens for connections, blocking until the
// server shuts down. The hubs stop when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("face server listening", "url", "http://localhost:"+s.port)

	go s.faceHub.Run(ctx)
	go s.statusHub.Run(ctx)

	return s.app.Listen(":" + s.port)
}

// BroadcastFrame pushes one animation frame to every open face stream.
func (s *Server) BroadcastFrame(frame face.State) {
	s.faceHub.BroadcastJSON(frame)
}

// UpdateStatus mutates the status under lock and broadcasts the result.
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	status := s.status // Copy for broadcast
	s.statusMu.Unlock()

	s.statusHub.BroadcastJSON(status)
}

// Status returns a snapshot of the current status.
func (s *Server) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// FaceClientCount returns how many browsers are watching the face.
func (s *Server) FaceClientCount() int {
	return s.faceHub.ClientCount()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
