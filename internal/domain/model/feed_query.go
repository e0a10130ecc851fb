package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SortOrder is the feed ordering requested by the SPA and passed through
// verbatim to the upstream listing endpoint.
type SortOrder string

const (
	SortRelevant SortOrder = "relevant"
	SortReported SortOrder = "reported"
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
)

// Valid returns true if the sort order is a known value.
func (s SortOrder) Valid() bool {
	switch s {
	case SortRelevant, SortReported, SortNewest, SortOldest:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// FilterOptions is the filter state the SPA maintains for the alert feed.
type FilterOptions struct {
	SortBy        SortOrder `json:"sortBy"`
	IncidentTypes []string  `json:"incidentTypes,omitempty"`
	// TimeRange is the forward horizon in days. 0 means "all time": the
	// window always starts at query time and extends forward, it never
	// filters by alert creation time.
	TimeRange int `json:"timeRange"`
	// Distance is the search radius in kilometres around the resolved
	// coordinates. 0 means no radius constraint.
	Distance float64 `json:"distance"`
}

const (
	// DefaultPageSize is the first-page limit for authenticated sessions.
	DefaultPageSize = 10
	// AnonymousPageSize caps what an anonymous session may see.
	AnonymousPageSize = 3
)

// AlertQueryParams is the query-parameter shape consumed by the upstream
// alert listing endpoint. Location is expressed as either a city name or a
// coordinate+radius pair, never both; coordinates win when present.
type AlertQueryParams struct {
	Page          int
	Limit         int
	SortBy        SortOrder
	StartDate     *time.Time
	EndDate       *time.Time
	IncidentTypes []string
	City          string
	Latitude      *float64
	Longitude     *float64
	Distance      *float64
}

// BuildQueryInput groups inputs for BuildQuery.
type BuildQueryInput struct {
	Filters   FilterOptions
	Location  ResolvedLocation
	Page      int
	PageSize  int // used for pages after the first; ignored when Anonymous
	Anonymous bool
	Now       time.Time // zero value means time.Now()
}

// BuildQuery translates filter state plus a resolved location into upstream
// query parameters.
func BuildQuery(in BuildQueryInput) AlertQueryParams {
	page := in.Page
	if page < 1 {
		page = 1
	}

	limit := in.PageSize
	switch {
	case in.Anonymous:
		limit = AnonymousPageSize
	case page == 1 || limit <= 0:
		limit = DefaultPageSize
	}

	params := AlertQueryParams{
		Page:   page,
		Limit:  limit,
		SortBy: in.Filters.SortBy,
	}

	if in.Filters.TimeRange > 0 {
		now := in.Now
		if now.IsZero() {
			now = time.Now()
		}
		end := now.AddDate(0, 0, in.Filters.TimeRange)
		params.StartDate = &now
		params.EndDate = &end
	}

	if len(in.Filters.IncidentTypes) > 0 {
		params.IncidentTypes = in.Filters.IncidentTypes
	}

	if in.Location.HasCoordinates() {
		params.Latitude = in.Location.Latitude
		params.Longitude = in.Location.Longitude
		if in.Filters.Distance > 0 {
			d := in.Filters.Distance
			params.Distance = &d
		}
	} else if in.Location.City != "" {
		params.City = in.Location.City
	}

	return params
}

// Values encodes the params for the upstream HTTP call. Dates are RFC 3339
// instants; incident types are a comma-joined list.
func (p AlertQueryParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy.String())
	}
	if p.StartDate != nil {
		v.Set("startDate", p.StartDate.UTC().Format(time.RFC3339))
	}
	if p.EndDate != nil {
		v.Set("endDate", p.EndDate.UTC().Format(time.RFC3339))
	}
	if len(p.IncidentTypes) > 0 {
		v.Set("incidentTypes", strings.Join(p.IncidentTypes, ","))
	}
	if p.Latitude != nil && p.Longitude != nil {
		v.Set("latitude", strconv.FormatFloat(*p.Latitude, 'f', -1, 64))
		v.Set("longitude", strconv.FormatFloat(*p.Longitude, 'f', -1, 64))
		if p.Distance != nil {
			v.Set("distance", strconv.FormatFloat(*p.Distance, 'f', -1, 64))
		}
	} else if p.City != "" {
		v.Set("city", p.City)
	}
	return v
}
