package handler

import (
	"net/http"

	"github.com/agrivest/agrivest-backend/internal/catalog"
	"github.com/labstack/echo/v4"
)

type PackHandler struct{}

func NewPackHandler() *PackHandler {
	return &PackHandler{}
}

func (h *PackHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"packs": catalog.All()})
}
