package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"cashbook/internal/core"
)

// loanGivenResponse carries a loan plus its derived balance figures so the
// UI table never recomputes them.
type loanGivenResponse struct {
	core.LoanGiven
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
}

func toLoanGivenResponse(loan core.LoanGiven) loanGivenResponse {
	return loanGivenResponse{
		LoanGiven: loan,
		TotalPaid: loan.TotalPaid(),
		Remaining: loan.Remaining(),
	}
}

func (s *Server) handleListLoansGiven(w http.ResponseWriter, r *http.Request) {
	loans := s.book.LoansGiven.List()
	out := make([]loanGivenResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, toLoanGivenResponse(loan))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLoanGiven(w http.ResponseWriter, r *http.Request) {
	var patch core.LoanGivenPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	loan, err := s.book.AddLoanGiven(r.Context(), patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toLoanGivenResponse(loan))
}

func (s *Server) handleUpdateLoanGiven(w http.ResponseWriter, r *http.Request) {
	var patch core.LoanGivenPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	loan, err := s.book.UpdateLoanGiven(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toLoanGivenResponse(loan))
}

func (s *Server) handleDeleteLoanGiven(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteLoanGiven(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListLoanPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.book.LoansGiven.Payments(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleRecordLoanPayment(w http.ResponseWriter, r *http.Request) {
	var payment core.Payment
	if err := decodeBody(r, &payment); err != nil {
		s.writeError(w, err)
		return
	}
	loan, err := s.book.RecordLoanPayment(r.Context(), mux.Vars(r)["id"], payment)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toLoanGivenResponse(loan))
}

func (s *Server) handleListLoansToPay(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.book.LoansToPay.List())
}

func (s *Server) handleCreateLoanToPay(w http.ResponseWriter, r *http.Request) {
	var loan core.LoanToPay
	if err := decodeBody(r, &loan); err != nil {
		s.writeError(w, err)
		return
	}
	added, err := s.book.AddLoanToPay(r.Context(), loan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleDeleteLoanToPay(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteLoanToPay(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPrincipalPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.book.LoansToPay.Payments(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleRecordPrincipalPayment(w http.ResponseWriter, r *http.Request) {
	var payment core.PrincipalPayment
	if err := decodeBody(r, &payment); err != nil {
		s.writeError(w, err)
		return
	}
	loan, err := s.book.RecordPrincipalPayment(r.Context(), mux.Vars(r)["id"], payment)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, loan)
}
