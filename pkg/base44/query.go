package base44

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// QueryParams represents query options for entity list and filter calls.
//
// Filter values are encoded as a single comma-joined key per field
// ("states=a,b"), never as repeated keys. This is the wire contract with the
// backend, so every caller must go through ToValues.
type QueryParams struct {
	// Sort is a comma-joined field list; a "-" prefix sorts descending.
	Sort string

	// Limit and Skip are pagination bounds. Zero values are omitted.
	Limit int
	Skip  int

	// Fields is a projection list; only the named fields are returned.
	Fields []string

	// Filters maps field names to accepted values.
	Filters map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithSort sets the sort field list.
func (p *QueryParams) WithSort(sort string) *QueryParams {
	p.Sort = sort

	return p
}

// WithLimit sets the page size.
func (p *QueryParams) WithLimit(limit int) *QueryParams {
	p.Limit = limit

	return p
}

// WithSkip sets the pagination offset.
func (p *QueryParams) WithSkip(skip int) *QueryParams {
	p.Skip = skip

	return p
}

// WithFields replaces the projection list.
func (p *QueryParams) WithFields(fields ...string) *QueryParams {
	p.Fields = fields

	return p
}

// WithFilter appends values to a filter field.
func (p *QueryParams) WithFilter(field string, values ...string) *QueryParams {
	if p.Filters == nil {
		p.Filters = make(map[string][]string)
	}

	p.Filters[field] = append(p.Filters[field], values...)

	return p
}

// WithFilterValue appends a single filter value of any scalar type.
func (p *QueryParams) WithFilterValue(field string, value interface{}) *QueryParams {
	return p.WithFilter(field, formatQueryValue(value))
}

// ToValues converts the params to URL query values.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if p == nil {
		return values
	}

	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}

	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.Skip > 0 {
		values.Set("skip", strconv.Itoa(p.Skip))
	}

	if len(p.Fields) > 0 {
		values.Set("fields", strings.Join(p.Fields, ","))
	}

	for field, vals := range p.Filters {
		if len(vals) > 0 {
			values.Set(field, strings.Join(vals, ","))
		}
	}

	return values
}

// FiltersFromMap converts a caller-supplied query map into filter values,
// stringifying scalars and comma-joining slices.
func FiltersFromMap(query map[string]interface{}) map[string][]string {
	if len(query) == 0 {
		return nil
	}

	filters := make(map[string][]string, len(query))

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		switch value := query[key].(type) {
		case []interface{}:
			vals := make([]string, 0, len(value))
			for _, item := range value {
				vals = append(vals, formatQueryValue(item))
			}

			filters[key] = vals
		case []string:
			filters[key] = value
		default:
			filters[key] = []string{formatQueryValue(value)}
		}
	}

	return filters
}

// formatQueryValue renders a scalar filter value without a float exponent.
func formatQueryValue(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
