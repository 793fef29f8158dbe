package fakeapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// roundTripper hands requests to Fiber's in-process test server.
type roundTripper struct {
	app *fiber.App
}

func (t roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return t.app.Test(req, -1)
}
