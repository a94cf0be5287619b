package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lottotrack/internal/core"
	"lottotrack/internal/services"
)

const maxBodyBytes = 64 << 10

type scratchOffRequest struct {
	GameName     string `json:"game_name"`
	GameNumber   string `json:"game_number"`
	TicketNumber *int   `json:"ticket_number"`
}

type drawGameRequest struct {
	GameType        string `json:"game_type"`
	CustomGameName  string `json:"custom_game_name"`
	NumbersSelected string `json:"numbers_selected"`
	BonusNumbers    string `json:"bonus_numbers"`
	DrawDate        string `json:"draw_date"`
	QuickPick       bool   `json:"quick_pick"`
	NumberOfDraws   int    `json:"number_of_draws"`
}

// TicketRequest is the body accepted when creating or editing a ticket.
// Money is a decimal string such as "5" or "2.50".
type TicketRequest struct {
	Type          string             `json:"type"`
	SerialNumber  string             `json:"serial_number"`
	PurchaseDate  string             `json:"purchase_date"`
	Price         string             `json:"price"`
	StoreName     string             `json:"store_name"`
	StoreLocation string             `json:"store_location"`
	Notes         string             `json:"notes"`
	ScratchOff    *scratchOffRequest `json:"scratch_off"`
	DrawGame      *drawGameRequest   `json:"draw_game"`
}

// StatusRequest changes a ticket's status. Prize is required for winner.
type StatusRequest struct {
	Status string `json:"status"`
	Prize  string `json:"prize"`
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// ToTicket converts the request into a domain ticket. Status is left for the
// service to default.
func (req TicketRequest) ToTicket() (core.Ticket, error) {
	tt, err := core.ParseTicketType(req.Type)
	if err != nil {
		return core.Ticket{}, err
	}
	purchased, err := core.ParseDate(req.PurchaseDate)
	if err != nil {
		return core.Ticket{}, err
	}
	price, err := core.ParseMoney(req.Price)
	if err != nil {
		return core.Ticket{}, fmt.Errorf("%w: price", err)
	}

	t := core.Ticket{
		Type:          tt,
		SerialNumber:  sanitizeInput(req.SerialNumber),
		PurchaseDate:  purchased,
		Price:         price,
		StoreName:     sanitizeInput(req.StoreName),
		StoreLocation: sanitizeInput(req.StoreLocation),
		Notes:         sanitizeInput(req.Notes),
	}

	switch tt {
	case core.ScratchOff:
		if req.ScratchOff == nil {
			return core.Ticket{}, fmt.Errorf("%w: scratch_off is required", core.ErrMissingDetails)
		}
		t.ScratchOff = &core.ScratchOffDetails{
			GameName:     sanitizeInput(req.ScratchOff.GameName),
			GameNumber:   sanitizeInput(req.ScratchOff.GameNumber),
			TicketNumber: req.ScratchOff.TicketNumber,
		}
	case core.DrawGame:
		d := req.DrawGame
		if d == nil {
			return core.Ticket{}, fmt.Errorf("%w: draw_game is required", core.ErrMissingDetails)
		}
		game, err := core.ParseDrawGameType(d.GameType)
		if err != nil {
			return core.Ticket{}, err
		}
		details := &core.DrawGameDetails{
			GameType:        game,
			CustomGameName:  sanitizeInput(d.CustomGameName),
			NumbersSelected: sanitizeInput(d.NumbersSelected),
			BonusNumbers:    sanitizeInput(d.BonusNumbers),
			QuickPick:       d.QuickPick,
			NumberOfDraws:   d.NumberOfDraws,
		}
		if strings.TrimSpace(d.DrawDate) != "" {
			if details.DrawDate, err = core.ParseDate(d.DrawDate); err != nil {
				return core.Ticket{}, err
			}
		}
		t.DrawGame = details
	}
	return t, nil
}

// parse validates a status change request.
func (req StatusRequest) parse() (core.Status, *core.Money, error) {
	status, err := core.ParseStatus(req.Status)
	if err != nil {
		return "", nil, err
	}
	if status != core.Winner {
		return status, nil, nil
	}
	if strings.TrimSpace(req.Prize) == "" {
		return status, nil, nil
	}
	prize, err := core.ParseMoney(req.Prize)
	if err != nil {
		return "", nil, fmt.Errorf("%w: prize", err)
	}
	return status, &prize, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid ticket id %q", raw)
	}
	return id, nil
}

// ParseTicketFilter reads type, status, from and to query parameters.
// to covers the whole of its day.
func ParseTicketFilter(q url.Values) (services.TicketFilter, error) {
	var f services.TicketFilter
	var err error
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		if f.Type, err = core.ParseTicketType(v); err != nil {
			return f, err
		}
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		if f.Status, err = core.ParseStatus(v); err != nil {
			return f, err
		}
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if f.From, err = core.ParseDate(v); err != nil {
			return f, err
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		to, err := core.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.To = core.EndOfDay(to)
	}
	return f, nil
}

// parsePeriod reads the required from and to dates of a period query.
func parsePeriod(q url.Values) (time.Time, time.Time, error) {
	from, err := core.ParseDate(q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := core.ParseDate(q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, core.EndOfDay(to), nil
}

// parseMonths reads ?months=, where 0 or absent means the configured default.
func parseMonths(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("months"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 120 {
		return 0, fmt.Errorf("%w: months must be between 1 and 120", core.ErrInvalidPeriod)
	}
	return n, nil
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
