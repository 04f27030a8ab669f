package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seatplan/pkg/buildinfo"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/render"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

type replaceLayoutRequest struct {
	Shape  venue.Shape   `json:"venue_shape"`
	Tables []venue.Table `json:"tables"`
}

type duplicateRequest struct {
	Name string `json:"name"`
}

type createWeddingRequest struct {
	Name string `json:"name"`
}

type selectLayoutRequest struct {
	LayoutID string `json:"layout_id"`
}

type assignRequest struct {
	GuestID string `json:"guest_id"`
}

type weddingResponse struct {
	*store.Wedding
	Summary seating.Summary `json:"summary"`
}

type seatsResponse struct {
	Assignments seating.Map `json:"seating_assignments"`
}

// fail logs server-side failures and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusOf(err) >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

// ---------- Layouts ----------

func (s *Server) listMyLayouts(w http.ResponseWriter, r *http.Request) {
	ls, err := s.planner.ListMine(r.Context(), UserID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ls == nil {
		ls = []venue.Layout{}
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) listPublicLayouts(w http.ResponseWriter, r *http.Request) {
	ls, err := s.planner.ListPublic(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ls == nil {
		ls = []venue.Layout{}
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	var l venue.Layout
	if err := decodeJSON(w, r, &l); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.planner.CreateLayout(r.Context(), UserID(r.Context()), &l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.planner.GetLayout(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) replaceLayout(w http.ResponseWriter, r *http.Request) {
	var req replaceLayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.planner.ReplaceLayout(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), req.Shape, req.Tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) patchLayout(w http.ResponseWriter, r *http.Request) {
	var p venue.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.planner.UpdateLayout(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteLayout(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) duplicateLayout(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	l, err := s.planner.DuplicateLayout(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// layoutSVG renders a layout. With ?wedding=<id> the wedding's seating is
// drawn on it, which requires owning the wedding.
func (s *Server) layoutSVG(w http.ResponseWriter, r *http.Request) {
	ctx, user := r.Context(), UserID(r.Context())
	l, err := s.planner.GetLayout(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var opts []render.Option
	if weddingID := r.URL.Query().Get("wedding"); weddingID != "" {
		wed, err := s.planner.GetWedding(ctx, user, weddingID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if wed.SelectedLayoutID != l.ID {
			s.fail(w, r, errors.Validation("wedding %s does not use layout %s", weddingID, l.ID))
			return
		}
		opts = append(opts, render.WithAssignments(wed.Assignments), render.WithGuestNames())
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.SVG(l, opts...))
}

// ---------- Weddings ----------

func (s *Server) createWedding(w http.ResponseWriter, r *http.Request) {
	var req createWeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wed, err := s.planner.CreateWedding(r.Context(), UserID(r.Context()), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wed)
}

func (s *Server) getWedding(w http.ResponseWriter, r *http.Request) {
	ctx, user, id := r.Context(), UserID(r.Context()), chi.URLParam(r, "id")
	wed, err := s.planner.GetWedding(ctx, user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := s.planner.Summary(ctx, user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weddingResponse{Wedding: wed, Summary: sum})
}

func (s *Server) selectLayout(w http.ResponseWriter, r *http.Request) {
	var req selectLayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ctx, user, id := r.Context(), UserID(r.Context()), chi.URLParam(r, "id")
	if err := s.planner.SelectLayout(ctx, user, id, req.LayoutID); err != nil {
		s.fail(w, r, err)
		return
	}
	wed, err := s.planner.GetWedding(ctx, user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wed)
}

func (s *Server) assignSeat(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.planner.AssignSeat(r.Context(), UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "seatId"), req.GuestID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seatsResponse{Assignments: m})
}

func (s *Server) unassignSeat(w http.ResponseWriter, r *http.Request) {
	m, err := s.planner.UnassignSeat(r.Context(), UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "seatId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seatsResponse{Assignments: m})
}

func (s *Server) clearSeats(w http.ResponseWriter, r *http.Request) {
	m, err := s.planner.ClearSeating(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seatsResponse{Assignments: m})
}
