package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oltenita/imobilia-market/internal/core/ports"
)

// HeaderIdempotencyKey makes a repeated create return the first result.
const HeaderIdempotencyKey = "Idempotency-Key"

// ListingHandler handles HTTP requests for listing operations.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles POST /api/listings.
//
// @Summary      Create a listing
// @Description  Accepts multipart/form-data (images in the "images" field) or a JSON body without images.
// @Tags         listings
// @Accept       mpfd,json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Replays the first result for 24h"
// @Param        body             body      createListingRequest  true   "Listing fields"
// @Success      200              {object}  domain.Listing
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	ownerID, err := requesterID(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	form, err := multipartForm(c)
	if err != nil {
		return err
	}

	listing, err := h.service.Create(c.Request().Context(), ports.CreateListingInput{
		OwnerID:        ownerID,
		Fields:         req.fields(),
		Images:         uploadsOf(form),
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listing)
}

// List handles GET /api/listings.
//
// @Summary      List all listings, newest first
// @Tags         listings
// @Produce      json
// @Success      200  {array}   domain.Listing
// @Failure      500  {object}  errorResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	listings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Get handles GET /api/listings/:id.
//
// @Summary      Get a listing by id
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  domain.Listing
// @Failure      404  {object}  errorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Mine handles GET /api/my-listings.
//
// @Summary      List the caller's listings, newest first
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Listing
// @Failure      401  {object}  errorResponse
// @Router       /api/my-listings [get]
func (h *ListingHandler) Mine(c echo.Context) error {
	ownerID, err := requesterID(c)
	if err != nil {
		return err
	}

	listings, err := h.service.ListMine(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Update handles PUT /api/listings/:id. Only the owner may update.
//
// @Summary      Update a listing
// @Description  Empty fields keep their value. keptImages is a JSON array of existing image URLs to retain; every other existing image is deleted, so an absent or malformed keptImages removes them all. New files in "images" are appended.
// @Tags         listings
// @Accept       mpfd,json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Changed fields"
// @Success      200   {object}  domain.Listing
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	form, err := multipartForm(c)
	if err != nil {
		return err
	}

	kept := keptImagesFromJSON(req.KeptImages)
	if form != nil {
		kept = keptImagesFromForm(form)
	}

	listing, err := h.service.Update(c.Request().Context(), ports.UpdateListingInput{
		ID:          c.Param("id"),
		RequesterID: userID,
		Fields:      req.fields(),
		NewImages:   uploadsOf(form),
		KeptImages:  kept,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Delete handles DELETE /api/listings/:id. Only the owner may delete.
//
// @Summary      Delete a listing and its images
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Listing deleted"})
}

// multipartForm returns the parsed form for multipart requests and nil for
// every other content type.
func multipartForm(c echo.Context) (*multipart.Form, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	return form, nil
}

func uploadsOf(form *multipart.Form) []ports.ImageUpload {
	if form == nil {
		return nil
	}
	return toUploads(form.File[formFieldImages])
}
