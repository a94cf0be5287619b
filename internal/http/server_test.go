package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	applog "lottotrack/internal/log"
	"lottotrack/internal/memory"
	"lottotrack/internal/services"
)

const scratchBody = `{"type":"scratch_off","serial_number":"SN-100","purchase_date":"2025-03-01","price":"5","store_name":"Corner Mart","scratch_off":{"game_name":"Lucky 7s"}}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.New()
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.Local)
	s := NewServer(":0",
		services.NewTicketService(store, nil),
		services.NewStatisticsService(store, 12).WithClock(func() time.Time { return now }),
		applog.New(applog.Config{Disabled: true}),
	)
	t.Cleanup(s.rateLimiter.stop)
	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func createTicket(t *testing.T, s *Server) ticketView {
	t.Helper()
	rr := do(t, s, http.MethodPost, "/api/tickets", scratchBody)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	return decode[ticketView](t, rr)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/healthz", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rr.Header().Get(applog.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestReadyz(t *testing.T) {
	s := newTestServer(t)
	if rr := do(t, s, http.MethodGet, "/readyz", ""); rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCreateTicket(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, http.MethodPost, "/api/tickets", scratchBody)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "/api/tickets/1" {
		t.Errorf("Location = %q", got)
	}
	v := decode[ticketView](t, rr)
	if v.ID != 1 || v.Status != "pending" || v.StatusLabel != "Pending" {
		t.Errorf("unexpected ticket %+v", v)
	}
	if v.Price.Cents != 500 || v.Price.Display != "$5.00" {
		t.Errorf("price = %+v", v.Price)
	}
	if v.GameName != "Lucky 7s" || v.PurchaseDate != "2025-03-01" {
		t.Errorf("game/date = %q/%q", v.GameName, v.PurchaseDate)
	}
}

func TestCreateTicketErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed JSON", `{"type":`, http.StatusBadRequest},
		{"unknown field", `{"type":"scratch_off","bogus":1}`, http.StatusBadRequest},
		{"unknown type", `{"type":"bingo","purchase_date":"2025-03-01","price":"1"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"scratch_off","purchase_date":"03/01/2025","price":"1","scratch_off":{"game_name":"X"}}`, http.StatusUnprocessableEntity},
		{"zero price", `{"type":"scratch_off","purchase_date":"2025-03-01","price":"0","scratch_off":{"game_name":"X"}}`, http.StatusUnprocessableEntity},
		{"missing details", `{"type":"draw_game","purchase_date":"2025-03-01","price":"2"}`, http.StatusUnprocessableEntity},
		{"missing numbers", `{"type":"draw_game","purchase_date":"2025-03-01","price":"2","draw_game":{"game_type":"Powerball"}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rr := do(t, s, http.MethodPost, "/api/tickets", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestGetTicket(t *testing.T) {
	s := newTestServer(t)
	created := createTicket(t, s)

	rr := do(t, s, http.MethodGet, "/api/tickets/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[ticketView](t, rr); got.ID != created.ID {
		t.Errorf("id = %d", got.ID)
	}

	if rr := do(t, s, http.MethodGet, "/api/tickets/99", ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing ticket status = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/api/tickets/abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rr.Code)
	}
}

func TestUpdateTicketKeepsStatus(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)
	do(t, s, http.MethodPost, "/api/tickets/1/status", `{"status":"loser"}`)

	body := strings.Replace(scratchBody, "Corner Mart", "Gas Stop", 1)
	rr := do(t, s, http.MethodPut, "/api/tickets/1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	v := decode[ticketView](t, rr)
	if v.StoreName != "Gas Stop" || v.Status != "loser" || v.ModifiedAt == nil {
		t.Errorf("unexpected ticket %+v", v)
	}
}

func TestSetStatus(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)

	rr := do(t, s, http.MethodPost, "/api/tickets/1/status", `{"status":"winner","prize":"20"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	v := decode[ticketView](t, rr)
	if v.Status != "winner" || v.Prize == nil || v.Prize.Cents != 2000 {
		t.Errorf("unexpected ticket %+v", v)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"back to pending", `{"status":"pending"}`, http.StatusUnprocessableEntity},
		{"winner without prize", `{"status":"winner"}`, http.StatusUnprocessableEntity},
		{"unknown status", `{"status":"lost"}`, http.StatusUnprocessableEntity},
		{"bad prize", `{"status":"winner","prize":"-1"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(t, s, http.MethodPost, "/api/tickets/1/status", tt.body); rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}

	if rr := do(t, s, http.MethodPost, "/api/tickets/1/status", `{"status":"claimed"}`); rr.Code != http.StatusOK {
		t.Fatalf("claim status = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/api/tickets/1/status", `{"status":"loser"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("claimed is final, got %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/api/tickets/7/status", `{"status":"loser"}`); rr.Code != http.StatusNotFound {
		t.Errorf("missing ticket status = %d", rr.Code)
	}
}

func TestDeleteTicket(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)

	if rr := do(t, s, http.MethodDelete, "/api/tickets/1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/api/tickets/1", ""); rr.Code != http.StatusNotFound {
		t.Errorf("after delete status = %d", rr.Code)
	}
	if rr := do(t, s, http.MethodDelete, "/api/tickets/1", ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rr.Code)
	}
}

func TestFindBySerial(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)

	rr := do(t, s, http.MethodGet, "/api/tickets/serial/SN-100", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if v := decode[ticketView](t, rr); v.SerialNumber != "SN-100" {
		t.Errorf("serial = %q", v.SerialNumber)
	}
	if rr := do(t, s, http.MethodGet, "/api/tickets/serial/NOPE", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown serial status = %d", rr.Code)
	}
}

func TestListTicketsFilter(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)
	createTicket(t, s)
	do(t, s, http.MethodPost, "/api/tickets/2/status", `{"status":"winner","prize":"1"}`)

	rr := do(t, s, http.MethodGet, "/api/tickets?status=winner", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if list := decode[[]ticketView](t, rr); len(list) != 1 || list[0].ID != 2 {
		t.Errorf("unexpected list %+v", list)
	}

	rr = do(t, s, http.MethodGet, "/api/tickets?from=2025-03-01&to=2025-03-01", "")
	if list := decode[[]ticketView](t, rr); len(list) != 2 {
		t.Errorf("inclusive range returned %d tickets", len(list))
	}

	if rr := do(t, s, http.MethodGet, "/api/tickets?type=bingo", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad type status = %d", rr.Code)
	}
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t)
	createTicket(t, s)
	do(t, s, http.MethodPost, "/api/tickets/1/status", `{"status":"winner","prize":"20"}`)

	rr := do(t, s, http.MethodGet, "/api/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	overall := decode[statisticsView](t, rr)
	if overall.TotalTickets != 1 || overall.NetProfit.Cents != 1500 || overall.WinRate != 100 {
		t.Errorf("unexpected overall %+v", overall)
	}

	rr = do(t, s, http.MethodGet, "/api/stats/type/draw_game", "")
	if byType := decode[statisticsView](t, rr); byType.TotalTickets != 0 {
		t.Errorf("draw game total = %d", byType.TotalTickets)
	}
	if rr := do(t, s, http.MethodGet, "/api/stats/type/bingo", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad type status = %d", rr.Code)
	}

	rr = do(t, s, http.MethodGet, "/api/stats/games", "")
	games := decode[[]gameView](t, rr)
	if len(games) != 1 || games[0].GameName != "Lucky 7s" {
		t.Errorf("unexpected games %+v", games)
	}

	rr = do(t, s, http.MethodGet, "/api/stats/monthly?months=3", "")
	months := decode[[]periodView](t, rr)
	if len(months) != 3 {
		t.Fatalf("months = %d", len(months))
	}
	if last := months[2]; last.StartDate != "2025-03-01" || last.Statistics.TotalTickets != 1 {
		t.Errorf("unexpected March window %+v", last)
	}
	if rr := do(t, s, http.MethodGet, "/api/stats/monthly?months=0", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("months=0 status = %d", rr.Code)
	}

	rr = do(t, s, http.MethodGet, "/api/stats/period?from=2025-03-01&to=2025-03-01", "")
	if p := decode[periodView](t, rr); p.Statistics.TotalTickets != 1 {
		t.Errorf("period total = %d", p.Statistics.TotalTickets)
	}
	if rr := do(t, s, http.MethodGet, "/api/stats/period?from=2025-03-02&to=2025-03-01", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("reversed period status = %d", rr.Code)
	}

	rr = do(t, s, http.MethodGet, "/api/dashboard", "")
	d := decode[dashboardView](t, rr)
	if d.Overall.TotalTickets != 1 || len(d.Recent) != 1 {
		t.Errorf("unexpected dashboard %+v", d)
	}
}

func TestWriteRateLimit(t *testing.T) {
	s := newTestServer(t)
	for i := range writeRateLimit {
		if rr := do(t, s, http.MethodPost, "/api/tickets", `{`); rr.Code != http.StatusBadRequest {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}

	rr := do(t, s, http.MethodPost, "/api/tickets", `{`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Error("missing Retry-After")
	}
	if rr := do(t, s, http.MethodGet, "/api/stats", ""); rr.Code != http.StatusOK {
		t.Errorf("reads are not limited, got %d", rr.Code)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}
