package handler

import (
	"net/http"

	"go-arsip/internal/pkg/httputils"
	"go-arsip/internal/service"

	"github.com/gorilla/mux"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/categories", h.listCategories).Methods("GET", "OPTIONS")
}

// @Summary List categories
// @Description List active file categories, alphabetically
// @ID list-categories
// @Produce json
// @Success 200 {object} []model.FileCategory
// @Failure 500 {object} response.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetCategories(r.Context())
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, categories)
}
