package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cashbook/internal/core"
)

// entryRequest is the wire form of an entry. Amount arrives as whatever the
// client sent, number or user-typed string, and goes through ParseAmount.
type entryRequest struct {
	Type     core.EntryType  `json:"type"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Note     string          `json:"note"`
}

func (r entryRequest) patch() core.EntryPatch {
	p := core.EntryPatch{Type: r.Type, Date: r.Date, Category: r.Category, Note: r.Note}
	raw := strings.Trim(string(r.Amount), `"`)
	// A bad amount is left at zero so validation reports fields in order.
	if amt, err := core.ParseAmount(raw); err == nil {
		p.Amount = amt
	}
	return p
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		s.writeError(w, core.Invalid("date", "query parameter required"))
		return
	}
	if err := core.ValidateDate(date); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.book.Entries.DailyView(date))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	entry, err := s.book.CreateEntry(r.Context(), req.patch())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	entry, err := s.book.UpdateEntry(r.Context(), mux.Vars(r)["id"], req.patch())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteEntry(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from != "" {
		if err := core.ValidateDate(from); err != nil {
			s.writeError(w, core.Invalid("from", "must be a YYYY-MM-DD calendar date"))
			return
		}
	}
	if to != "" {
		if err := core.ValidateDate(to); err != nil {
			s.writeError(w, core.Invalid("to", "must be a YYYY-MM-DD calendar date"))
			return
		}
	}
	s.writeJSON(w, http.StatusOK, s.book.Entries.RangeSummary(from, to))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{
		"income":  core.Categories(core.Income),
		"expense": core.Categories(core.Expense),
	})
}
