package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func strptr(s string) *string { return &s }

type fakeSearcher struct {
	results []Contact
	err     error
	keyword string
}

func (f *fakeSearcher) Search(_ context.Context, keyword string) ([]Contact, error) {
	f.keyword = keyword
	return f.results, f.err
}

// newTestApp mirrors the app-level error handler from cmd/api.
func newTestApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Get("/contacts/", h.Search)
	return app
}

func TestSearchRequiresKeyword(t *testing.T) {
	for _, target := range []string{"/contacts/", "/contacts/?keyword=", "/contacts/?keyword=%20"} {
		t.Run(target, func(t *testing.T) {
			app := newTestApp(NewHandler(&fakeSearcher{}))

			res, err := app.Test(httptest.NewRequest("GET", target, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if res.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", res.StatusCode)
			}
		})
	}
}

func TestSearchReturnsWrappedResults(t *testing.T) {
	searcher := &fakeSearcher{results: []Contact{
		{ID: 1, FirstName: strptr("Craig"), LastName: strptr("Smith"), Email: strptr("craig@x.com")},
	}}
	app := newTestApp(NewHandler(searcher))

	res, err := app.Test(httptest.NewRequest("GET", "/contacts/?keyword=Craig", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if searcher.keyword != "Craig" {
		t.Errorf("keyword passed to store = %q, want Craig", searcher.keyword)
	}

	var body SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].ID != 1 {
		t.Errorf("results = %+v", body.Results)
	}
	if got := body.Results[0].Email; got == nil || *got != "craig@x.com" {
		t.Errorf("email = %v", got)
	}
}

func TestSearchEmptyResultsIsAnArray(t *testing.T) {
	app := newTestApp(NewHandler(&fakeSearcher{}))

	res, err := app.Test(httptest.NewRequest("GET", "/contacts/?keyword=Zzzznomatch", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	raw, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(raw), `"results":[]`) {
		t.Errorf("body = %s, want empty results array", raw)
	}
}

func TestSearchMasksStorageErrors(t *testing.T) {
	app := newTestApp(NewHandler(&fakeSearcher{err: errors.New("pq: relation contacts does not exist")}))

	res, err := app.Test(httptest.NewRequest("GET", "/contacts/?keyword=Craig", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.StatusCode)
	}

	raw, _ := io.ReadAll(res.Body)
	if strings.Contains(string(raw), "relation") {
		t.Errorf("raw storage error leaked to the client: %s", raw)
	}
	if !strings.Contains(string(raw), "search failed") {
		t.Errorf("body = %s, want generic search failed message", raw)
	}
}
