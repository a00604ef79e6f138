package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Zahumennov/contacs-updater/internal/contacts"
	"github.com/Zahumennov/contacs-updater/internal/sync"
)

type Router struct {
	ContactsHandler *contacts.Handler
	SyncHandler     *sync.Handler
	SearchRateMW    fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.ContactsHandler != nil {
		if r.SearchRateMW != nil {
			app.Get("/contacts/", r.SearchRateMW, r.ContactsHandler.Search)
		} else {
			app.Get("/contacts/", r.ContactsHandler.Search)
		}
	}

	if r.SyncHandler != nil {
		app.Post("/api/sync/run", r.SyncHandler.Run)
	}
}
