package dispatch

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/entrhq/wingman/pkg/app"
	"github.com/entrhq/wingman/pkg/assistant"
	"github.com/entrhq/wingman/pkg/screenshot"
	"github.com/entrhq/wingman/pkg/security/pathguard"
)

func (s *Server) routes(r fiber.Router) {
	r.Get("/health", s.health)

	r.Post("/take-screenshot", s.takeScreenshot)
	r.Get("/screenshots", s.screenshots)
	r.Post("/delete-screenshot", s.deleteScreenshot)
	r.Post("/reset-queues", s.resetQueues)

	r.Get("/view", s.getView)
	r.Post("/view", s.setView)

	r.Post("/update-content-dimensions", s.updateDimensions)
	r.Post("/toggle-window", s.windowOp(s.state.ToggleWindow))
	r.Post("/move-window-left", s.windowOp(s.state.MoveWindowLeft))
	r.Post("/move-window-right", s.windowOp(s.state.MoveWindowRight))
	r.Get("/window", s.windowState)

	r.Post("/process", s.process)
	r.Post("/cancel", s.cancelProcessing)
	r.Post("/reset", s.reset)

	r.Post("/analyze-audio-base64", s.analyzeAudioBase64)
	r.Post("/analyze-audio-file", s.analyzeAudioFile)
	r.Post("/analyze-image-file", s.analyzeImageFile)

	r.Get("/events", s.events)
	r.Post("/quit", s.quitHandler)
}

func (s *Server) health(c *fiber.Ctx) error {
	model := ""
	if a := s.state.Assistant(); a != nil {
		model = a.Model()
	}
	return c.JSON(fiber.Map{
		"status":     "ok",
		"view":       s.state.View().String(),
		"model":      model,
		"processing": s.state.Processing(),
	})
}

func (s *Server) takeScreenshot(c *fiber.Ctx) error {
	shot, err := s.state.TakeScreenshot(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(shot)
}

func (s *Server) screenshots(c *fiber.Ctx) error {
	shots, err := s.state.Screenshots(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(shots)
}

// deleteScreenshot always answers 200; the outcome is in the Result.
func (s *Server) deleteScreenshot(c *fiber.Ctx) error {
	var body PathBody
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(screenshot.Failure(err))
	}
	if err := body.Validate(); err != nil {
		return c.JSON(screenshot.Failure(err))
	}
	return c.JSON(s.state.DeleteScreenshot(body.Path))
}

func (s *Server) resetQueues(c *fiber.Ctx) error {
	return c.JSON(s.state.ResetQueues())
}

func (s *Server) getView(c *fiber.Ctx) error {
	return c.JSON(ViewResponse{View: s.state.View().String()})
}

func (s *Server) setView(c *fiber.Ctx) error {
	var body ViewBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	view, _ := screenshot.ParseView(body.View)
	s.state.SetView(view)
	return c.JSON(ViewResponse{View: view.String()})
}

// updateDimensions ignores missing or non-positive sizes.
func (s *Server) updateDimensions(c *fiber.Ctx) error {
	var body DimensionsBody
	if err := c.BodyParser(&body); err == nil {
		s.state.SetWindowDimensions(body.Width, body.Height)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) windowOp(op func()) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (s *Server) windowState(c *fiber.Ctx) error {
	return c.JSON(s.state.Window().State())
}

// process starts processing in the background and returns immediately;
// progress arrives on /ipc/events.
func (s *Server) process(c *fiber.Ctx) error {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := s.state.ProcessScreenshots(s.ctx); err != nil {
			s.logger.Warnf("processing ended with error: %v", err)
		}
	}()
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) cancelProcessing(c *fiber.Ctx) error {
	s.state.CancelProcessing()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) reset(c *fiber.Ctx) error {
	s.state.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) analyzeAudioBase64(c *fiber.Ctx) error {
	var body AudioBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	analysis, err := s.state.AnalyzeAudioBase64(c.UserContext(), body.Data, body.MimeType)
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(analysis)
}

func (s *Server) analyzeAudioFile(c *fiber.Ctx) error {
	var body PathBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	analysis, err := s.state.AnalyzeAudioFile(c.UserContext(), body.Path)
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(analysis)
}

func (s *Server) analyzeImageFile(c *fiber.Ctx) error {
	var body PathBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	analysis, err := s.state.AnalyzeImageFile(c.UserContext(), body.Path)
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(analysis)
}

func (s *Server) quitHandler(c *fiber.Ctx) error {
	s.logger.Infof("quit requested by client")
	s.requestQuit()
	return c.SendStatus(fiber.StatusAccepted)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pathguard.ErrInvalidPath),
		errors.Is(err, assistant.ErrUnsupportedAudio):
		return fiber.StatusBadRequest
	case errors.Is(err, assistant.ErrPromptTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, app.ErrNoAssistant):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
