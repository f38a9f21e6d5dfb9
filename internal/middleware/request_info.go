package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
)

// RequestInfo puts the caller's address and user agent on the request
// context. Behind Cloudflare or a proxy the forwarded address wins.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get("CF-Connecting-IP")
		if ip == "" {
			if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
				ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
			}
		}
		if ip == "" {
			ip = c.IP()
		}

		c.SetUserContext(domain.WithClientInfo(c.UserContext(), domain.ClientInfo{
			IP:        ip,
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}))
		return c.Next()
	}
}
