package tmdb

// Wire types for the TMDB REST API. Only the fields the service consumes
// are mapped.

type movieResponse struct {
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Overview    string  `json:"overview"`
	Runtime     int     `json:"runtime"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos struct {
		Results []struct {
			Key  string `json:"key"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

type searchResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
		ReleaseDate string  `json:"release_date"`
		Overview    string  `json:"overview"`
	} `json:"results"`
}
