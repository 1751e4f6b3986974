package http

import "net/http"

func (s *Server) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, s.uc.Analytics.Summary(r.Context()))
}

func (s *Server) analyticsGenres(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]any{
		"genres": s.uc.Analytics.GenreDistribution(r.Context()),
	})
}

func (s *Server) analyticsRatings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]any{
		"buckets": s.uc.Analytics.RatingDistribution(r.Context()),
	})
}

func (s *Server) analyticsYears(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]any{
		"years": s.uc.Analytics.YearTrends(r.Context()),
	})
}
