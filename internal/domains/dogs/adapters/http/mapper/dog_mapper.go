package mapper

import (
	"strings"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
)

// Dog is the HTTP representation of a dog, joined with the caller's
// favorites.
type Dog struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	Age      int    `json:"age"`
	ImageURL string `json:"img"`
	ZipCode  string `json:"zipCode"`
	Favorite bool   `json:"favorite"`
}

// SearchFilters is the inbound filter payload.
type SearchFilters struct {
	Breeds   []string `json:"breeds"`
	ZipCodes []string `json:"zipCodes"`
	AgeMin   *int     `json:"ageMin"`
	AgeMax   *int     `json:"ageMax"`
}

// SearchPage is the HTTP representation of the search state.
type SearchPage struct {
	Filters       SearchFilters `json:"filters"`
	Sort          string        `json:"sort"`
	SortField     string        `json:"sortField"`
	SortDirection string        `json:"sortDirection"`
	PageSize      int           `json:"pageSize"`
	Total         int           `json:"total"`
	HasNext       bool          `json:"hasNext"`
	HasPrev       bool          `json:"hasPrev"`
	Loading       bool          `json:"loading"`
	LastError     string        `json:"lastError,omitempty"`
	Dogs          []Dog         `json:"dogs"`
}

// FromDomainDog maps a dog with its favorite flag.
func FromDomainDog(dog domain.Dog, favorite bool) Dog {
	return Dog{
		ID:       dog.ID,
		Name:     dog.Name,
		Breed:    dog.Breed,
		Age:      dog.Age,
		ImageURL: dog.ImageURL,
		ZipCode:  dog.ZipCode,
		Favorite: favorite,
	}
}

// FromDomainDogs maps dogs, flagging those present in favorites.
func FromDomainDogs(dogs []domain.Dog, favorites map[string]struct{}) []Dog {
	out := make([]Dog, 0, len(dogs))
	for _, dog := range dogs {
		_, fav := favorites[dog.ID]
		out = append(out, FromDomainDog(dog, fav))
	}
	return out
}

// ToDomainFilters trims and drops blank entries. Validation is left to the
// domain.
func ToDomainFilters(in SearchFilters) domain.SearchFilters {
	return domain.SearchFilters{
		Breeds:   compact(in.Breeds),
		ZipCodes: compact(in.ZipCodes),
		AgeMin:   in.AgeMin,
		AgeMax:   in.AgeMax,
	}
}

// FromDomainFilters maps filters back to the transport shape.
func FromDomainFilters(f domain.SearchFilters) SearchFilters {
	return SearchFilters{
		Breeds:   nonNil(f.Breeds),
		ZipCodes: nonNil(f.ZipCodes),
		AgeMin:   f.AgeMin,
		AgeMax:   f.AgeMax,
	}
}

// FromSnapshot maps the search state. Cursors stay server-side; only their
// presence is exposed.
func FromSnapshot(snap searchapp.Snapshot, favorites map[string]struct{}) SearchPage {
	return SearchPage{
		Filters:       FromDomainFilters(snap.Filters),
		Sort:          snap.Sort.String(),
		SortField:     string(snap.Sort.Field),
		SortDirection: string(snap.Sort.Direction),
		PageSize:      snap.PageSize,
		Total:         snap.Total,
		HasNext:       snap.HasNext(),
		HasPrev:       snap.HasPrev(),
		Loading:       snap.Loading,
		LastError:     snap.LastError,
		Dogs:          FromDomainDogs(snap.Dogs, favorites),
	}
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
