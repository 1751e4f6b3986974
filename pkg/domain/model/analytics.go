package model

// AnalyticsSummary holds the key metric cards of the analytics view.
// Runtime and vote figures come from external enrichment and are zero in
// degraded mode; Degraded marks that case for the consumer.
type AnalyticsSummary struct {
	TotalMovies    int     `json:"total_movies"`
	AverageRating  float64 `json:"average_rating"`
	AverageRuntime int     `json:"average_runtime,omitempty"`
	TotalVotes     int     `json:"total_votes,omitempty"`
	SampleSize     int     `json:"sample_size"`
	Degraded       bool    `json:"degraded,omitempty"`
}

// GenreCount is one bar of the genre distribution chart
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RatingBucket is one bar of the rating distribution chart
type RatingBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is one point of the releases-per-year chart
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}
