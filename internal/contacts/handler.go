package contacts

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Searcher is the read path the handler needs from storage.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]Contact, error)
}

type Handler struct {
	Repo Searcher
}

func NewHandler(repo Searcher) *Handler {
	return &Handler{Repo: repo}
}

// Search handles GET /contacts/. Storage errors are logged with their real
// cause but only a generic message leaves the process.
func (h *Handler) Search(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "keyword query parameter is required")
	}

	results, err := h.Repo.Search(userContext(c), keyword)
	if err != nil {
		log.Printf("contacts: search %q failed: %v", keyword, err)
		return fiber.NewError(fiber.StatusInternalServerError, "search failed")
	}

	if results == nil {
		results = []Contact{}
	}
	return c.JSON(SearchResponse{Results: results})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
