package sync

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Worker *Worker
}

func NewHandler(worker *Worker) *Handler {
	return &Handler{Worker: worker}
}

// Run handles POST /api/sync/run, the on-demand trigger.
func (h *Handler) Run(c *fiber.Ctx) error {
	if err := h.Worker.RunNow(c.UserContext()); err != nil {
		if err == ErrSyncInProgress {
			return fiber.NewError(fiber.StatusConflict, "sync already in progress")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "sync failed")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "completed"})
}
