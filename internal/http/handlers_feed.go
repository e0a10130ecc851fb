package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	"github.com/tourprism/tp-ui-api/internal/service"
)

// FeedHandlers provides HTTP handlers for the alert feed.
type FeedHandlers struct {
	Feed      *service.FeedService
	Locations *service.LocationService
}

// Fetch loads the first feed page for the calling session.
// GET /api/feed?sortBy=&incidentTypes=&timeRange=&distance=.
func (h *FeedHandlers) Fetch(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_filters", Err: err})
		return
	}

	key, anonymous := clientKey(w, r)

	view, err := h.Feed.Fetch(r.Context(), key, service.FetchInput{
		Filters:   filters,
		Location:  h.currentLocation(r, key),
		Anonymous: anonymous,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// LoadMore continues a previously fetched feed.
// POST /api/feed/more.
func (h *FeedHandlers) LoadMore(w http.ResponseWriter, r *http.Request) {
	key, _ := clientKey(w, r)

	view, err := h.Feed.LoadMore(r.Context(), key)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// currentLocation loads the session's resolved location for query building.
// An unresolved session queries without a location constraint.
func (h *FeedHandlers) currentLocation(r *http.Request, key string) model.ResolvedLocation {
	if h.Locations == nil {
		return model.ResolvedLocation{}
	}
	loc, err := h.Locations.Current(r.Context(), key)
	if err != nil || loc == nil {
		return model.ResolvedLocation{}
	}
	return *loc
}

// parseFilters reads feed filter options from query parameters.
func parseFilters(r *http.Request) (model.FilterOptions, error) {
	q := r.URL.Query()
	filters := model.FilterOptions{SortBy: model.SortRelevant}

	if raw := q.Get("sortBy"); raw != "" {
		sort := model.SortOrder(raw)
		if !sort.Valid() {
			return model.FilterOptions{}, errors.New("unknown sortBy value: " + raw)
		}
		filters.SortBy = sort
	}

	if raw := q.Get("incidentTypes"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.IncidentTypes = append(filters.IncidentTypes, t)
			}
		}
	}

	if raw := q.Get("timeRange"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return model.FilterOptions{}, errors.New("timeRange must be a non-negative number of days")
		}
		filters.TimeRange = days
	}

	if raw := q.Get("distance"); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil || km < 0 {
			return model.FilterOptions{}, errors.New("distance must be a non-negative number of kilometres")
		}
		filters.Distance = km
	}

	return filters, nil
}
