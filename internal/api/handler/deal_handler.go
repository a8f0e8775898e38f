package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ibpipeline/pipeline-api/internal/api/metrics"
	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

// DealHandler handles HTTP requests for the deal lifecycle.
type DealHandler struct {
	service ports.DealService
}

func NewDealHandler(service ports.DealService) *DealHandler {
	return &DealHandler{service: service}
}

// Create handles POST /api/deals.
//
// @Summary      Create a new deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDealRequest  true  "Deal details"
// @Success      201   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.Create(c.Request().Context(), ports.CreateDealInput{
		ClientName: req.ClientName,
		DealType:   req.DealType,
		Sector:     req.Sector,
		Summary:    req.Summary,
		AssignedTo: req.AssignedTo,
		CreatedBy:  username,
	})
	if err != nil {
		return err
	}

	metrics.DealsCreatedTotal.WithLabelValues(deal.DealType).Inc()
	return c.JSON(http.StatusCreated, toDealResponse(deal, role))
}

// List handles GET /api/deals.
//
// @Summary      List all deals
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listDealsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/deals [get]
func (h *DealHandler) List(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deals, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]dealResponse, 0, len(deals))
	for _, d := range deals {
		items = append(items, toDealResponse(d, role))
	}
	return c.JSON(http.StatusOK, listDealsResponse{Items: items, Total: len(items)})
}

// Get handles GET /api/deals/:id.
//
// @Summary      Get a deal by ID
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  dealResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/deals/{id} [get]
func (h *DealHandler) Get(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal, role))
}

// Update handles PUT /api/deals/:id — overwrites summary, sector, and deal
// type.
//
// @Summary      Update basic deal fields
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Deal ID"
// @Param        body  body      updateDealRequest  true  "Fields to overwrite"
// @Success      200   {object}  dealResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/deals/{id} [put]
func (h *DealHandler) Update(c echo.Context) error {
	var req updateDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.UpdateBasicFields(c.Request().Context(), c.Param("id"), ports.UpdateBasicFieldsInput{
		Summary:  req.Summary,
		Sector:   req.Sector,
		DealType: req.DealType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal, role))
}

// UpdateStage handles PATCH /api/deals/:id/stage.
//
// @Summary      Move a deal to another pipeline stage
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Deal ID"
// @Param        body  body      updateStageRequest  true  "Target stage"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/deals/{id}/stage [patch]
func (h *DealHandler) UpdateStage(c echo.Context) error {
	var req updateStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.UpdateStage(c.Request().Context(), c.Param("id"), domain.DealStage(req.Stage))
	if err != nil {
		return err
	}

	metrics.StageTransitionsTotal.WithLabelValues(string(deal.CurrentStage)).Inc()
	return c.JSON(http.StatusOK, toDealResponse(deal, role))
}

// AddNote handles POST /api/deals/:id/notes.
//
// @Summary      Append a note to a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Deal ID"
// @Param        body  body      addNoteRequest  true  "Note text"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/deals/{id}/notes [post]
func (h *DealHandler) AddNote(c echo.Context) error {
	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	username, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.AddNote(c.Request().Context(), c.Param("id"), username, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal, role))
}

// UpdateValue handles PATCH /api/deals/:id/value (admin only).
//
// @Summary      Set the deal value
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Deal ID"
// @Param        body  body      updateValueRequest  true  "New deal value"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/deals/{id}/value [patch]
func (h *DealHandler) UpdateValue(c echo.Context) error {
	var req updateValueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deal, err := h.service.UpdateDealValue(c.Request().Context(), c.Param("id"), req.DealValue)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal, role))
}

// Delete handles DELETE /api/deals/:id (admin only).
//
// @Summary      Delete a deal permanently
// @Tags         deals
// @Security     BearerAuth
// @Param        id  path  string  true  "Deal ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/deals/{id} [delete]
func (h *DealHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
