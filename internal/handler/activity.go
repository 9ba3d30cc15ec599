package handler

import (
	"net/http"
	"strconv"

	"go-arsip/internal/pkg/httputils"
	"go-arsip/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/activities", h.searchActivities).Methods("GET", "OPTIONS")
}

// @Summary Search activities
// @Description Search the full activity log, including history of deleted files
// @ID search-activities
// @Produce json
// @Success 200 {object} model.ActivitiesPage
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param q query string false "Search term (file name, performer, description)"
// @Param type query string false "Activity type (Upload, Download, Update, Delete, View)"
// @Param from query string false "Performed from (YYYY-MM-DD)"
// @Param to query string false "Performed to, inclusive (YYYY-MM-DD)"
// @Param page query int false "Page number, starting at 1"
// @Param page_size query int false "Page size, max 100"
// @Router /activities [get]
func (h *ActivityHandler) searchActivities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
	}

	pageSize := defaultPageSize
	if raw := query.Get("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid page size")
			return
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	result, err := h.activityService.Search(r.Context(), query.Get("q"), query.Get("type"),
		from, to, page, pageSize)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to search activities")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, result)
}
