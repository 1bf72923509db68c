package web

import (
	"net/http"
	"time"
)

type missingView struct {
	Kind      string        `json:"kind"`
	Name      string        `json:"name"`
	Issue     string        `json:"issue"`
	Count     int           `json:"count"`
	FirstSeen time.Time     `json:"firstSeen"`
	LastSeen  time.Time     `json:"lastSeen"`
	Contexts  []contextView `json:"contexts"`
}

type contextView struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Field string `json:"field"`
}

type cacheStatsView struct {
	Entries int            `json:"entries"`
	ByKind  map[string]int `json:"byKind"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	summary := s.summary
	s.mu.RUnlock()

	if summary == nil {
		writeError(w, http.StatusNotFound, "no completed run")
		return
	}
	s.writeJSON(w, summary)
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	records := s.missing.Records()

	views := make([]missingView, 0, len(records))
	for _, rec := range records {
		v := missingView{
			Kind:      string(rec.Key.Kind),
			Name:      rec.Key.Name,
			Issue:     rec.Issue,
			Count:     rec.Count,
			FirstSeen: rec.FirstSeen,
			LastSeen:  rec.LastSeen,
			Contexts:  make([]contextView, 0, len(rec.Contexts)),
		}
		for _, ref := range rec.Contexts {
			v.Contexts = append(v.Contexts, contextView{
				Sheet: ref.Sheet,
				Row:   ref.Row,
				Field: ref.Field,
			})
		}
		views = append(views, v)
	}

	s.writeJSON(w, views)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()

	byKind := make(map[string]int)
	for _, e := range snap.Entries {
		byKind[string(e.Key.Kind)]++
	}

	s.writeJSON(w, cacheStatsView{
		Entries: snap.Total,
		ByKind:  byKind,
	})
}
