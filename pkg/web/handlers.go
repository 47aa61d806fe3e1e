package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-deskbot/pkg/hub"
)

// handleIndex serves the embedded face page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		return fiber.ErrInternalServerError
	}
	c.Type("html")
	return c.Send(page)
}

// handleStatus returns the companion's current status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

// handleToggleListening flips voice capture on or off.
func (s *Server) handleToggleListening(c *fiber.Ctx) error {
	if s.OnToggleListening == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "voice input not available",
		})
	}

	listening := s.OnToggleListening()
	return c.JSON(fiber.Map{"listening": listening})
}

// handleResetConversation clears the chat history.
func (s *Server) handleResetConversation(c *fiber.Ctx) error {
	if s.OnResetConversation != nil {
		s.OnResetConversation()
	}
	return c.JSON(fiber.Map{"reset": true})
}

// handleQuit asks the application to shut down.
func (s *Server) handleQuit(c *fiber.Ctx) error {
	if s.OnQuit == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "quit not available",
		})
	}

	// Reply before the shutdown tears the connection down.
	if err := c.JSON(fiber.Map{"quitting": true}); err != nil {
		return err
	}
	go s.OnQuit()
	return nil
}

// handleFaceWS streams animation frames to a browser.
func (s *Server) handleFaceWS(c *websocket.Conn) {
	client := hub.NewClient(s.faceHub, c)
	client.Run() // Blocks until the connection closes
}

// handleStatusWS streams status updates to a browser, seeding each
// connection with the current snapshot.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	c.WriteJSON(s.Status())
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
