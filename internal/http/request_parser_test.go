package http

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lottotrack/internal/core"
)

func TestTicketRequestToTicket(t *testing.T) {
	req := TicketRequest{
		Type:         "draw_game",
		SerialNumber: "  PB-1 ",
		PurchaseDate: "2025-03-15",
		Price:        "$2.50",
		StoreName:    "Corner\x07 Mart",
		DrawGame: &drawGameRequest{
			GameType:        "Powerball",
			NumbersSelected: "1 2 3 4 5",
			BonusNumbers:    "6",
			DrawDate:        "2025-03-16",
			QuickPick:       true,
			NumberOfDraws:   2,
		},
	}

	got, err := req.ToTicket()
	if err != nil {
		t.Fatalf("ToTicket: %v", err)
	}
	if got.Type != core.DrawGame || got.SerialNumber != "PB-1" || got.StoreName != "Corner Mart" {
		t.Errorf("unexpected ticket %+v", got)
	}
	if got.Price.Cents != 250 {
		t.Errorf("price = %d", got.Price.Cents)
	}
	want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local)
	if !got.PurchaseDate.Equal(want) {
		t.Errorf("purchase date = %v, want %v", got.PurchaseDate, want)
	}
	if got.DrawGame == nil || got.DrawGame.GameType != core.Powerball || got.DrawGame.NumberOfDraws != 2 {
		t.Fatalf("draw details = %+v", got.DrawGame)
	}
	if got.DrawGame.DrawDate.Day() != 16 {
		t.Errorf("draw date = %v", got.DrawGame.DrawDate)
	}
	if got.ScratchOff != nil {
		t.Error("scratch-off details set on a draw ticket")
	}
}

func TestTicketRequestToTicketErrors(t *testing.T) {
	base := func() TicketRequest {
		return TicketRequest{
			Type:         "scratch_off",
			PurchaseDate: "2025-03-01",
			Price:        "5",
			ScratchOff:   &scratchOffRequest{GameName: "Lucky 7s"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*TicketRequest)
		want   error
	}{
		{"bad type", func(r *TicketRequest) { r.Type = "keno" }, core.ErrInvalidTicketType},
		{"bad date", func(r *TicketRequest) { r.PurchaseDate = "yesterday" }, core.ErrInvalidDate},
		{"bad price", func(r *TicketRequest) { r.Price = "five" }, core.ErrInvalidAmount},
		{"missing scratch details", func(r *TicketRequest) { r.ScratchOff = nil }, core.ErrMissingDetails},
		{"missing draw details", func(r *TicketRequest) { r.Type = "draw_game"; r.ScratchOff = nil }, core.ErrMissingDetails},
		{"bad game", func(r *TicketRequest) {
			r.Type = "draw_game"
			r.ScratchOff = nil
			r.DrawGame = &drawGameRequest{GameType: "Lotto", NumbersSelected: "1"}
		}, core.ErrInvalidGameType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			_, err := req.ToTicket()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStatusRequestParse(t *testing.T) {
	status, prize, err := StatusRequest{Status: "Winner", Prize: "12.50"}.parse()
	if err != nil {
		t.Fatal(err)
	}
	if status != core.Winner || prize == nil || prize.Cents != 1250 {
		t.Errorf("got %s %v", status, prize)
	}

	status, prize, err = StatusRequest{Status: "loser", Prize: "3"}.parse()
	if err != nil || status != core.Loser || prize != nil {
		t.Errorf("loser ignores prize, got %s %v %v", status, prize, err)
	}

	if _, _, err := (StatusRequest{Status: "won"}).parse(); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("error = %v", err)
	}
	if _, _, err := (StatusRequest{Status: "winner", Prize: "abc"}).parse(); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error = %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"status":"loser"}`))
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status != "loser" {
		t.Errorf("decode = %+v, %v", req, err)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"status":"loser","extra":true}`))
	if err := decodeJSON(r, &req); err == nil {
		t.Error("expected unknown field error")
	}

	big := `{"status":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	r = httptest.NewRequest("POST", "/", strings.NewReader(big))
	if err := decodeJSON(r, &req); err == nil {
		t.Error("expected oversized body error")
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/tickets/"+tt.raw, nil)
		r.SetPathValue("id", tt.raw)
		got, err := pathID(r)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("pathID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestParseTicketFilter(t *testing.T) {
	f, err := ParseTicketFilter(url.Values{
		"type":   {"scratch_off"},
		"status": {"winner"},
		"from":   {"2025-01-01"},
		"to":     {"2025-01-31"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != core.ScratchOff || f.Status != core.Winner {
		t.Errorf("filter = %+v", f)
	}
	lastMoment := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.Local)
	if f.To.Before(lastMoment) {
		t.Errorf("to = %v, want end of day", f.To)
	}

	empty, err := ParseTicketFilter(url.Values{})
	if err != nil || empty.HasRange() || empty.Type != "" {
		t.Errorf("empty filter = %+v, %v", empty, err)
	}

	for _, q := range []url.Values{
		{"type": {"bingo"}},
		{"status": {"lost"}},
		{"from": {"1/1/2025"}},
		{"to": {"tomorrow"}},
	} {
		if _, err := ParseTicketFilter(q); !core.IsValidationError(err) {
			t.Errorf("ParseTicketFilter(%v) error = %v", q, err)
		}
	}
}

func TestParseMonths(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"6", 6, false},
		{"120", 120, false},
		{"0", 0, true},
		{"121", 0, true},
		{"six", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMonths(url.Values{"months": {tt.raw}})
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseMonths(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x1fc", "abc"},
		{"line1\nline2\tend", "line1\nline2\tend"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
