// Package controllers maps HTTP requests onto the service layer.
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/pkg/bind"
	"github.com/shashiranjanraj/shoplist/pkg/metrics"
	"github.com/shashiranjanraj/shoplist/pkg/response"
	"github.com/shashiranjanraj/shoplist/pkg/sse"
)

// ProductView is the JSON shape of a product. Image bytes are not inlined
// in list payloads; clients fetch them from image_url.
type ProductView struct {
	UID        uint   `json:"uid"`
	CatalogID  int    `json:"catalog_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	ImageBytes int    `json:"image_bytes"`
	ImageURL   string `json:"image_url"`
}

func viewOf(p models.Product) ProductView {
	return ProductView{
		UID:        p.UID,
		CatalogID:  p.CatalogID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		ImageBytes: len(p.ImageData),
		ImageURL:   fmt.Sprintf("/api/products/%d/image", p.UID),
	}
}

func viewsOf(products []models.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = viewOf(p)
	}
	return views
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

type createProductRequest struct {
	Name      string `json:"name"       validate:"required,min=1,max=255"`
	Quantity  int    `json:"quantity"   validate:"gte=0"`
	CatalogID int    `json:"catalog_id" validate:"nullable,between=1,100"`
}

type updateProductRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=255"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// List returns the current snapshot.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	response.Success(w, viewsOf(products))
}

// Create runs the full add-product flow: validate, enrich, commit.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body createProductRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.AddProduct(r.Context(), body.Name, body.Quantity, body.CatalogID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, viewOf(p))
}

// Update edits name and quantity; the image is never changed here.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	var body updateProductRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.UpdateProduct(uid, body.Name, body.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}

	p, err := c.service.Get(uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, viewOf(p))
}

// Delete removes one product.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteProduct(uid); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]uint{"deleted": uid})
}

// DeleteAll clears the list.
func (c *ProductController) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteAll(); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]bool{"cleared": true})
}

// Image serves the stored image bytes for one product.
func (c *ProductController) Image(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	p, err := c.service.Get(uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(p.ImageData))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(p.ImageData) //nolint:errcheck
}

// Stream pushes live list snapshots over SSE: the current snapshot on
// subscribe, then one event per committed mutation, until the client
// disconnects.
func (c *ProductController) Stream(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()

	for snapshot := range c.service.Watch(r.Context()) {
		if err := stream.Send("products", viewsOf(snapshot)); err != nil {
			return
		}
		if stream.IsClosed() {
			return
		}
	}
}

func uidParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "uid")
	uid, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || uid == 0 {
		response.Error(w, http.StatusBadRequest, "invalid product uid")
		return 0, false
	}
	return uint(uid), true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyName), errors.Is(err, services.ErrNegativeQuantity):
		response.ValidationError(w, map[string]string{"product": err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w)
	default:
		response.Error(w, http.StatusInternalServerError, "store operation failed")
	}
}
