package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

type coordPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p coordPayload) coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
}

type refillResponse struct {
	Inserted int           `json:"inserted"`
	Spawns   []model.Spawn `json:"spawns"`
}

// handleRefill tops the pool up to the configured target population.
func (s *Server) handleRefill(w http.ResponseWriter, r *http.Request) {
	inserted, err := s.pool.Refill(r.Context(), s.cfg.TargetSpawns, s.cfg.PlayArea)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if inserted == nil {
		inserted = []model.Spawn{}
	}
	writeJSON(w, http.StatusOK, refillResponse{Inserted: len(inserted), Spawns: inserted})
}

// handleActiveSpawns serves the live snapshot straight from the store.
func (s *Server) handleActiveSpawns(w http.ResponseWriter, r *http.Request) {
	spawns, err := s.spawns.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spawns": spawns})
}

func (s *Server) handleClaimSpawn(w http.ResponseWriter, r *http.Request) {
	spawnID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "spawn id must be an integer")
		return
	}

	var body coordPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "body must carry lat and lng")
		return
	}

	id := identityFrom(r.Context())
	res, err := s.claims.ClaimSpawn(r.Context(), id.UserID, spawnID, body.coordinate(), id.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClaimLandmark(w http.ResponseWriter, r *http.Request) {
	landmarkID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "landmark id must be an integer")
		return
	}

	var body coordPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "body must carry lat and lng")
		return
	}

	id := identityFrom(r.Context())
	res, err := s.claims.ClaimLandmark(r.Context(), id.UserID, landmarkID, body.coordinate(), id.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type landmarkEntry struct {
	model.Landmark
	Visited bool `json:"visited"`
}

func (s *Server) handleListLandmarks(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	landmarks, err := s.landmarks.LoadAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	visitedIDs, err := s.landmarks.VisitedIDs(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	visited := make(map[int64]bool, len(visitedIDs))
	for _, v := range visitedIDs {
		visited[v] = true
	}

	entries := make([]landmarkEntry, 0, len(landmarks))
	for _, l := range landmarks {
		entries = append(entries, landmarkEntry{Landmark: l, Visited: visited[l.ID]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"landmarks": entries})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"species": s.catalog.All()})
}

type profileResponse struct {
	model.Profile
	Stats model.PlayerStats `json:"stats"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	profile, err := s.profiles.GetOrCreate(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	captureCount, err := s.captures.CountByUser(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	visitCount, err := s.landmarks.CountVisits(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Profile: *profile,
		Stats:   model.PlayerStats{Captures: captureCount, LandmarkVisits: visitCount},
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "body must carry display_name")
		return
	}
	body.DisplayName = strings.TrimSpace(body.DisplayName)
	if body.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "display_name must not be empty")
		return
	}

	id := identityFrom(r.Context())
	if err := s.profiles.UpdateDisplayName(r.Context(), id.UserID, body.DisplayName); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"display_name": body.DisplayName})
}

const maxSearchResults = 10

type searchResult struct {
	Category       string         `json:"category"`
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Element        string         `json:"element,omitempty"`
	Location       geo.Coordinate `json:"location"`
	DistanceMeters *float64       `json:"distance_meters,omitempty"`
	ETAMinutes     *int           `json:"eta_minutes,omitempty"`
}

// handleSearch matches active spawns by name/element and landmarks by name.
// When the caller supplies lat/lng, results carry distance and a rough ETA.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	category := r.URL.Query().Get("category")
	element := r.URL.Query().Get("element")

	var userCoord *geo.Coordinate
	if latStr, lngStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			userCoord = &geo.Coordinate{Lat: lat, Lng: lng}
		}
	}

	results := make([]searchResult, 0, maxSearchResults)

	if category == "" || category == "wayang" {
		spawns, err := s.spawns.ListActive(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		for _, sp := range spawns {
			if query != "" && !strings.Contains(strings.ToLower(sp.Species.Name), query) {
				continue
			}
			if element != "" && sp.Species.Element != element {
				continue
			}
			results = append(results, located(searchResult{
				Category: "wayang",
				ID:       sp.ID,
				Name:     sp.Species.Name,
				Element:  sp.Species.Element,
				Location: sp.Location,
			}, userCoord))
		}
	}

	// Landmarks have no element; an element filter excludes them.
	if (category == "" || category == "landmark") && element == "" {
		landmarks, err := s.landmarks.LoadAll(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		for _, l := range landmarks {
			if query != "" && !strings.Contains(strings.ToLower(l.Name), query) {
				continue
			}
			results = append(results, located(searchResult{
				Category: "landmark",
				ID:       l.ID,
				Name:     l.Name,
				Location: l.Location,
			}, userCoord))
		}
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func located(res searchResult, userCoord *geo.Coordinate) searchResult {
	if userCoord == nil {
		return res
	}
	d := geo.Distance(*userCoord, res.Location)
	eta := int(geo.ETA(d).Minutes())
	res.DistanceMeters = &d
	res.ETAMinutes = &eta
	return res
}
