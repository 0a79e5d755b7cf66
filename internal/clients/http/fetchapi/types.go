package fetchapi

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Dog mirrors the upstream dog document.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// SearchParams are the query parameters accepted by GET /dogs/search.
// Zero values are omitted from the request.
type SearchParams struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
	Size     *int
	From     *int
	Sort     string
	Page     *int
}

// SearchResponse is the body of GET /dogs/search. Next and Prev are
// server-issued URLs and are absent on the last and first page.
type SearchResponse struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// MatchResponse is the body of POST /dogs/match.
type MatchResponse struct {
	Match string `json:"match"`
}

// MaxDogsPerLookup is the upstream cap on ids per POST /dogs call.
const MaxDogsPerLookup = 100
