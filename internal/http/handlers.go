package http

import (
	"net/http"
	"strconv"
	"strings"

	"lottotrack/internal/core"
	applog "lottotrack/internal/log"
)

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseTicketFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	list, err := s.stats.ListTickets(r.Context(), filter)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewResponse().JSON(newTicketViews(list)).Write(w)
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	t, err := req.ToTicket()
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}

	saved, err := s.tickets.AddTicket(r.Context(), t)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.logChange(r, applog.OpCreate, saved)
	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/tickets/"+strconv.FormatInt(saved.ID, 10)).
		JSON(newTicketView(saved)).
		Write(w)
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	t, err := s.tickets.GetTicket(r.Context(), id)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(newTicketView(t)).Write(w)
}

func (s *Server) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var req TicketRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	t, err := req.ToTicket()
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	t.ID = id

	saved, err := s.tickets.UpdateTicket(r.Context(), t)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.logChange(r, applog.OpUpdate, saved)
	NewResponse().JSON(newTicketView(saved)).Write(w)
}

func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.tickets.DeleteTicket(r.Context(), id); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	status, prize, err := req.parse()
	if err != nil {
		writeError(w, r, applog.OpStatus, err)
		return
	}

	saved, err := s.tickets.SetStatus(r.Context(), id, status, prize)
	if err != nil {
		writeError(w, r, applog.OpStatus, err)
		return
	}
	s.logChange(r, applog.OpStatus, saved)
	NewResponse().JSON(newTicketView(saved)).Write(w)
}

func (s *Server) handleFindBySerial(w http.ResponseWriter, r *http.Request) {
	serial := strings.TrimSpace(r.PathValue("serial"))
	t, err := s.tickets.FindBySerial(r.Context(), serial)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(newTicketView(t)).Write(w)
}

func (s *Server) handleOverall(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Overall(r.Context())
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	NewResponse().JSON(newStatisticsView(st)).Write(w)
}

func (s *Server) handleStatsByType(w http.ResponseWriter, r *http.Request) {
	tt, err := core.ParseTicketType(r.PathValue("type"))
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	st, err := s.stats.ByType(r.Context(), tt)
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	NewResponse().JSON(newStatisticsView(st)).Write(w)
}

func (s *Server) handleStatsByGame(w http.ResponseWriter, r *http.Request) {
	games, err := s.stats.ByGame(r.Context())
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	out := make([]gameView, 0, len(games))
	for _, g := range games {
		out = append(out, gameView{
			GameName:   g.GameName,
			TicketType: g.TicketType,
			Statistics: newStatisticsView(g.Statistics),
		})
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonths(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	periods, err := s.stats.Monthly(r.Context(), months)
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	out := make([]periodView, 0, len(periods))
	for _, p := range periods {
		out = append(out, newPeriodView(p))
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	p, err := s.stats.ByPeriod(r.Context(), from, to)
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	NewResponse().JSON(newPeriodView(p)).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, applog.OpStats, err)
		return
	}
	NewResponse().JSON(newDashboardView(d)).Write(w)
}

func (s *Server) logChange(r *http.Request, op string, t core.Ticket) {
	var prize *int64
	if t.Prize != nil {
		prize = &t.Prize.Cents
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTicketChange(r.Context(), op, t.ID, string(t.Type), string(t.Status), t.GameName(), t.Price.Cents, prize)
}
