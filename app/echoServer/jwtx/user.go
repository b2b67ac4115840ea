package jwtx

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user's id set by the auth middleware,
// or "" when the request is unauthenticated.
func UserID(c echo.Context) string {
	uid, _ := c.Get("user_id").(string)
	return uid
}
