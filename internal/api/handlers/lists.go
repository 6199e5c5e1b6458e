package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"visit-scheduler-service/internal/api/dto"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// ListHandler manages the uploaded pub lists held in the state snapshot.
type ListHandler struct {
	Store ports.StateStore
}

// Upload ingests one tagged list: every pub receives the list's tier,
// filename, and optional deadline. This is where the "exactly one
// priority tag" invariant is established.
func (h *ListHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.UploadListRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	tier := domain.Priority(strings.TrimSpace(req.Tier))
	if !validTier(tier) {
		writeError(w, r, http.StatusBadRequest, "tier must be one of KPI, RecentWin, Wishlist, Unvisited, Masterfile")
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, r, http.StatusBadRequest, "file_name is required")
		return
	}
	if len(req.Pubs) == 0 {
		writeError(w, r, http.StatusBadRequest, "pubs must not be empty")
		return
	}

	pubs := make([]domain.Pub, 0, len(req.Pubs))
	for _, p := range req.Pubs {
		pubs = append(pubs, domain.Pub{
			Name:        p.Name,
			Postcode:    p.Postcode,
			LastVisited: p.LastVisited,
			RTM:         p.RTM,
			Landlord:    p.Landlord,
			Notes:       p.Notes,
		})
	}
	tagged := domain.TagList(pubs, tier, req.FileName, req.Deadline)

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if snap.Lists == nil {
		snap.Lists = make(map[domain.Priority][]domain.Pub)
	}
	snap.Lists[tier] = append(snap.Lists[tier], tagged...)

	switch tier {
	case domain.PriorityKPI:
		if req.Deadline != "" {
			snap.Settings.KPIDeadline = req.Deadline
		}
	case domain.PriorityRecentWin:
		if req.Deadline != "" {
			snap.Settings.FollowUpDeadline = req.Deadline
		}
	}

	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UploadListResponse{
		Tier:     string(tier),
		FileName: req.FileName,
		Added:    len(tagged),
	})
}

// Remove drops every pub that arrived from the given source file, across
// all tiers.
func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fileName := strings.TrimSpace(r.URL.Query().Get("file"))
	if fileName == "" {
		writeError(w, r, http.StatusBadRequest, "file query parameter is required")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	removed := 0
	for tier, pubs := range snap.Lists {
		kept := pubs[:0]
		for _, p := range pubs {
			if p.FileName == fileName {
				removed++
				continue
			}
			kept = append(kept, p)
		}
		snap.Lists[tier] = kept
	}

	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]int{"removed": removed})
}

// List returns every uploaded pub grouped by tier.
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPubsResponse{Lists: make(map[string][]dto.PubResponse, len(snap.Lists))}
	for tier, pubs := range snap.Lists {
		out := make([]dto.PubResponse, 0, len(pubs))
		for _, p := range pubs {
			out = append(out, toPubResponse(p))
		}
		res.Lists[string(tier)] = out
	}

	writeJSON(w, r, http.StatusOK, res)
}

func validTier(p domain.Priority) bool {
	for _, t := range domain.Tiers {
		if p == t {
			return true
		}
	}
	return false
}
