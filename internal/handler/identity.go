package handler

import (
	"github.com/gofiber/fiber/v2"
)

// currentIdentity auth middleware'in koyduğu kimliği okur. İki alan da
// dolu değilse ok false döner; handler 401 dönmelidir.
func currentIdentity(c *fiber.Ctx) (uint, string, bool) {
	userID, okID := c.Locals("userID").(uint)
	userEmail, okEmail := c.Locals("userEmail").(string)
	if !okID || !okEmail || userID == 0 || userEmail == "" {
		return 0, "", false
	}
	return userID, userEmail, true
}
