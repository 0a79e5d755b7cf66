package fetchapi

import (
	"strings"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
)

// ToDomainDog converts the upstream document into the domain value.
func ToDomainDog(d fetchclient.Dog) domain.Dog {
	return domain.Dog{
		ID:       strings.TrimSpace(d.ID),
		Name:     d.Name,
		Breed:    d.Breed,
		Age:      d.Age,
		ImageURL: d.Img,
		ZipCode:  d.ZipCode,
	}
}

// ToSearchParams builds first-page parameters from a domain query.
func ToSearchParams(q domain.SearchQuery) fetchclient.SearchParams {
	params := FilterParams(q.Filters)
	if q.Size > 0 {
		size := q.Size
		params.Size = &size
	}
	if q.Page > 0 {
		page := q.Page
		params.Page = &page
	}
	if q.Sort.Field != "" {
		params.Sort = q.Sort.String()
	}
	return params
}

// FilterParams carries only the filter predicates, as sent along with cursors.
func FilterParams(f domain.SearchFilters) fetchclient.SearchParams {
	clone := f.Clone()
	return fetchclient.SearchParams{
		Breeds:   clone.Breeds,
		ZipCodes: clone.ZipCodes,
		AgeMin:   clone.AgeMin,
		AgeMax:   clone.AgeMax,
	}
}

// ToPageResult converts a search response. Cursors stay opaque.
func ToPageResult(resp *fetchclient.SearchResponse) *domain.PageResult {
	if resp == nil {
		return &domain.PageResult{}
	}
	return &domain.PageResult{
		IDs:   append([]string(nil), resp.ResultIDs...),
		Total: resp.Total,
		Next:  domain.Cursor(resp.Next),
		Prev:  domain.Cursor(resp.Prev),
	}
}
