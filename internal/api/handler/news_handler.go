package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

type NewsHandler struct {
	store ports.ClubStore
}

func NewNewsHandler(store ports.ClubStore) *NewsHandler {
	return &NewsHandler{store: store}
}

// List returns news items newest first.
//
// @Summary      List news
// @Tags         news
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   newsResponse
// @Router       /v1/news [get]
func (h *NewsHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, toNewsResponses(domain.NewsByRecency(h.store.ListNews())))
}

// Create publishes a news item.
//
// @Summary      Publish news
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNewsRequest  true  "News item"
// @Success      201   {object}  newsResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/news [post]
func (h *NewsHandler) Create(c echo.Context) error {
	var req createNewsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.store.AddNewsItem(c.Request().Context(), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toNewsResponse(*item))
}
