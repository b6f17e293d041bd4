package http

import "github.com/labstack/echo/v4"

// Handler registers one service's route set on the shared router.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
