package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fallback: read the CSRF cookie directly if Locals wasn't populated,
		// to avoid empty hidden fields in forms.
		if cookTok := c.Cookies("csrf_"); cookTok != "" {
			data["CSRFToken"] = cookTok
		}
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// ensureSID returns the session id cookie, minting one when absent.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}
