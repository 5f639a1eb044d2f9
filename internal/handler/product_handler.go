package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/rs/zerolog"
)

// maxFormBytes caps the size of an add-product submission.
const maxFormBytes = 1 << 20

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	pages   *Pages
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, pages *Pages, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		pages:   pages,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	h.pages.render(w, r, http.StatusOK, view.PageProducts, view.ProductsPage{
		Title:    "Product List",
		Products: products,
	})
}

// productPayload is the JSON form of an add-product submission. Price may be
// sent as a string or a number.
type productPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
}

func (p productPayload) form() (model.ProductForm, error) {
	form := model.ProductForm{Name: p.Name, Description: p.Description}

	raw := bytes.TrimSpace(p.Price)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &form.Price); err != nil {
			return model.ProductForm{}, err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return model.ProductForm{}, err
		}
		form.Price = n.String()
	}

	return form, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// Add handles POST /products/add submissions, either URL-encoded or JSON.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var form model.ProductForm
	if isJSON(r) {
		var payload productPayload
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err == nil {
			form, err = payload.form()
		}
		if err != nil {
			h.logger.Debug().Err(err).Msg("invalid JSON body")
			writeText(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.logger.Debug().Err(err).Msg("invalid form submission")
			writeText(w, http.StatusBadRequest, "Invalid form submission")
			return
		}
		form = model.ProductForm{
			Name:        r.PostForm.Get("name"),
			Description: r.PostForm.Get("description"),
			Price:       r.PostForm.Get("price"),
		}
	}

	if _, err := h.service.Create(r.Context(), form); err != nil {
		var domainErr *model.DomainError
		if model.IsValidation(err) && errors.As(err, &domainErr) {
			writeText(w, http.StatusBadRequest, domainErr.Message)
			return
		}
		h.pages.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/products", http.StatusFound)
}

// APIList handles GET /api/products requests.
func (h *ProductHandler) APIList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, model.ProductListResponse{
		Success:  true,
		Count:    len(products),
		Products: products,
	}, h.logger)
}
