package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ScratchOff TicketType = "scratch_off"
	DrawGame   TicketType = "draw_game"
)

const (
	Pending Status = "pending"
	Winner  Status = "winner"
	Loser   Status = "loser"
	Claimed Status = "claimed"
)

const (
	Powerball    DrawGameType = "Powerball"
	MegaMillions DrawGameType = "MegaMillions"
	StateLottery DrawGameType = "StateLottery"
	Pick3        DrawGameType = "Pick3"
	Pick4        DrawGameType = "Pick4"
	Cash5        DrawGameType = "Cash5"
	OtherGame    DrawGameType = "Other"
)

type (
	TicketType   string
	Status       string
	DrawGameType string

	Money struct {
		Cents int64
	}

	// Ticket is a recorded purchase. Type selects which of ScratchOff or
	// DrawGame is populated; the other one is nil.
	Ticket struct {
		ID            int64
		Type          TicketType
		SerialNumber  string
		PurchaseDate  time.Time
		Price         Money
		StoreName     string
		StoreLocation string
		Status        Status
		Prize         *Money // set only for Winner and Claimed
		Notes         string
		CreatedAt     time.Time
		ModifiedAt    time.Time // zero until the first update

		ScratchOff *ScratchOffDetails
		DrawGame   *DrawGameDetails
	}

	ScratchOffDetails struct {
		GameName     string
		GameNumber   string
		TicketNumber *int
	}

	DrawGameDetails struct {
		GameType        DrawGameType
		CustomGameName  string
		NumbersSelected string
		BonusNumbers    string
		DrawDate        time.Time
		QuickPick       bool
		NumberOfDraws   int
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrInvalidPrize        = errors.New("prize amount cannot be negative")
	ErrInvalidTicketType   = errors.New("invalid ticket type")
	ErrInvalidStatus       = errors.New("invalid ticket status")
	ErrInvalidGameType     = errors.New("invalid draw game type")
	ErrEmptyGameName       = errors.New("game name is required")
	ErrEmptyCustomGame     = errors.New("custom game name is required for other games")
	ErrEmptyNumbers        = errors.New("selected numbers are required")
	ErrInvalidDraws        = errors.New("number of draws must be at least 1")
	ErrMissingPurchaseDate = errors.New("purchase date is required")
	ErrMissingDetails      = errors.New("ticket details do not match ticket type")
	ErrPrizeWithoutWin     = errors.New("prize amount is only allowed on winning tickets")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTooLong             = errors.New("value too long")
	ErrInvalidPeriod       = errors.New("period end is before its start")
	ErrInvalidDate         = errors.New("invalid date")
)

var validationErrors = []error{
	ErrInvalidAmount, ErrInvalidPrice, ErrInvalidPrize, ErrInvalidTicketType,
	ErrInvalidStatus, ErrInvalidGameType, ErrEmptyGameName, ErrEmptyCustomGame,
	ErrEmptyNumbers, ErrInvalidDraws, ErrMissingPurchaseDate, ErrMissingDetails,
	ErrPrizeWithoutWin, ErrInvalidTransition, ErrTooLong, ErrInvalidPeriod, ErrInvalidDate,
}

// IsValidationError reports whether err was caused by bad user input rather
// than a storage or transport failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TicketTypes lists the supported ticket subtypes.
func TicketTypes() []TicketType {
	return []TicketType{ScratchOff, DrawGame}
}

// DrawGameTypes lists the supported draw games in display order.
func DrawGameTypes() []DrawGameType {
	return []DrawGameType{Powerball, MegaMillions, StateLottery, Pick3, Pick4, Cash5, OtherGame}
}

func (t TicketType) IsValid() bool {
	return t == ScratchOff || t == DrawGame
}

func (t TicketType) String() string {
	return string(t)
}

// ParseTicketType accepts the stored form plus a few human spellings.
func ParseTicketType(s string) (TicketType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scratch_off", "scratch-off", "scratchoff", "scratch":
		return ScratchOff, nil
	case "draw_game", "draw-game", "drawgame", "draw":
		return DrawGame, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTicketType, s)
}

func (s Status) IsValid() bool {
	switch s {
	case Pending, Winner, Loser, Claimed:
		return true
	}
	return false
}

// IsWin reports whether the status counts as a winning ticket.
func (s Status) IsWin() bool {
	return s == Winner || s == Claimed
}

func (s Status) String() string {
	return string(s)
}

// Label is the short text shown next to a ticket.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "Pending"
	case Winner:
		return "Winner!"
	case Loser:
		return "No Win"
	case Claimed:
		return "Claimed"
	}
	return "Unknown"
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (g DrawGameType) IsValid() bool {
	for _, v := range DrawGameTypes() {
		if g == v {
			return true
		}
	}
	return false
}

// ParseDrawGameType matches game names case-insensitively.
func ParseDrawGameType(s string) (DrawGameType, error) {
	s = strings.TrimSpace(s)
	for _, v := range DrawGameTypes() {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGameType, s)
}

// GameName is the name statistics are grouped under.
func (t Ticket) GameName() string {
	switch {
	case t.ScratchOff != nil:
		return t.ScratchOff.GameName
	case t.DrawGame != nil:
		if t.DrawGame.GameType == OtherGame {
			if name := strings.TrimSpace(t.DrawGame.CustomGameName); name != "" {
				return name
			}
		}
		return string(t.DrawGame.GameType)
	}
	return ""
}

func (t Ticket) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTicketType
	}
	if t.PurchaseDate.IsZero() {
		return ErrMissingPurchaseDate
	}
	if err := t.Price.Validate(); err != nil {
		return ErrInvalidPrice
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Prize != nil {
		if !t.Status.IsWin() {
			return ErrPrizeWithoutWin
		}
		if t.Prize.Cents < 0 {
			return ErrInvalidPrize
		}
	}
	if len(t.Notes) > 1000 {
		return fmt.Errorf("%w: notes (max 1000 characters)", ErrTooLong)
	}

	switch t.Type {
	case ScratchOff:
		if t.ScratchOff == nil || t.DrawGame != nil {
			return ErrMissingDetails
		}
		return t.ScratchOff.Validate()
	default:
		if t.DrawGame == nil || t.ScratchOff != nil {
			return ErrMissingDetails
		}
		return t.DrawGame.Validate()
	}
}

func (d ScratchOffDetails) Validate() error {
	if strings.TrimSpace(d.GameName) == "" {
		return ErrEmptyGameName
	}
	if len(d.GameName) > 200 {
		return fmt.Errorf("%w: game name (max 200 characters)", ErrTooLong)
	}
	return nil
}

func (d DrawGameDetails) Validate() error {
	if !d.GameType.IsValid() {
		return ErrInvalidGameType
	}
	if d.GameType == OtherGame && strings.TrimSpace(d.CustomGameName) == "" {
		return ErrEmptyCustomGame
	}
	if strings.TrimSpace(d.NumbersSelected) == "" {
		return ErrEmptyNumbers
	}
	if d.NumberOfDraws < 1 {
		return ErrInvalidDraws
	}
	return nil
}
