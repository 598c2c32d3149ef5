/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Every dollar figure crosses the wire as a decimal string ("434.09"),
  never a float. Clients render it verbatim; nothing re-rounds.

DATES:
  Engagement dates are ISO dates (YYYY-MM-DD). Timestamps are RFC3339.

VALIDATION:
  Structural validation (required fields, hour ranges, roster entries)
  lives in the contract service; handlers only parse shapes and dates.

SEE ALSO:
  - handlers.go: Uses these types
  - contract/service.go: DetailsUpdate / EngagementUpdate inputs
*/
package api

import (
	"time"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/engine"
)

// =============================================================================
// AUTH TYPES
// =============================================================================

// RegisterRequest is the request to create an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the request to authenticate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO represents an account in API responses. The password hash
// never leaves the server.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AuthResponse carries a bearer token plus the account it belongs to.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// =============================================================================
// SCALE TYPES
// =============================================================================

// ScaleDTO describes one registered rate schedule for scale pickers.
type ScaleDTO struct {
	Jurisdiction   string `json:"jurisdiction"`
	ScaleKey       string `json:"scale_key"`
	Name           string `json:"name"`
	EffectiveStart string `json:"effective_start,omitempty"`
	EffectiveEnd   string `json:"effective_end,omitempty"`
}

// =============================================================================
// CONTRACT TYPES
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Jurisdiction string `json:"jurisdiction"`
	ScaleKey     string `json:"scale_key"`

	EngagementDate string `json:"engagement_date,omitempty"`
	EngagementType string `json:"engagement_type,omitempty"`
	BandName       string `json:"band_name,omitempty"`
	VenueName      string `json:"venue_name,omitempty"`
	Borough        string `json:"borough,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	IsRecorded     bool   `json:"is_recorded"`

	LeaderName         string `json:"leader_name,omitempty"`
	LeaderCardNo       string `json:"leader_card_no,omitempty"`
	LeaderTaxID        string `json:"leader_tax_id,omitempty"`
	LeaderAddress      string `json:"leader_address,omitempty"`
	LeaderPhone        string `json:"leader_phone,omitempty"`
	LeaderInstrument   string `json:"leader_instrument,omitempty"`
	LeaderIsPlaying    bool   `json:"leader_is_playing"`
	LeaderDoubling     bool   `json:"leader_doubling"`
	LeaderNumDoubles   int    `json:"leader_num_doubles"`
	LeaderCartage      bool   `json:"leader_cartage"`
	LeaderIncorporated bool   `json:"leader_incorporated"`

	PerformanceHours float64 `json:"performance_hours"`
	HasRehearsal     bool    `json:"has_rehearsal"`
	RehearsalHours   float64 `json:"rehearsal_hours"`
	NumMusicians     int     `json:"num_musicians"`

	TotalGross          string `json:"total_gross"`
	TotalPension        string `json:"total_pension"`
	TotalHealth         string `json:"total_health"`
	TotalWorkDues       string `json:"total_work_dues"`
	ParticipantsWithPay int    `json:"participants_with_pay"`

	CreatedAt   string `json:"created_at"`
	LastSavedAt string `json:"last_saved_at"`
}

// MusicianDTO represents one roster entry.
type MusicianDTO struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	Name       string `json:"name"`
	CardNo     string `json:"card_no,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
	Instrument string `json:"instrument,omitempty"`
	Doubling   bool   `json:"doubling"`
	NumDoubles int    `json:"num_doubles"`
	Cartage    bool   `json:"cartage"`
}

// PayLineDTO is one participant's computed pay.
type PayLineDTO struct {
	Name           string `json:"name"`
	Instrument     string `json:"instrument,omitempty"`
	PerformancePay string `json:"performance_pay"`
	RehearsalPay   string `json:"rehearsal_pay"`
	OvertimePay    string `json:"overtime_pay"`
	DoublingPay    string `json:"doubling_pay"`
	CartagePay     string `json:"cartage_pay"`
	Gross          string `json:"gross"`
	Health         string `json:"health"`
}

// ContractViewDTO is the full detail view: the contract, the ordered
// roster, and one pay line per participant. Lines is empty when the
// contract cannot currently be priced.
type ContractViewDTO struct {
	Contract  ContractDTO   `json:"contract"`
	Musicians []MusicianDTO `json:"musicians"`
	Lines     []PayLineDTO  `json:"pay_lines,omitempty"`
}

// SaveDetailsRequest is the step-1 save: engagement details plus the
// leader block. An empty jurisdiction/scale_key keeps the current one.
type SaveDetailsRequest struct {
	EngagementDate string `json:"engagement_date"`
	EngagementType string `json:"engagement_type"`
	BandName       string `json:"band_name"`
	VenueName      string `json:"venue_name"`
	Borough        string `json:"borough"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`

	LeaderName       string `json:"leader_name"`
	LeaderCardNo     string `json:"leader_card_no"`
	LeaderTaxID      string `json:"leader_tax_id"`
	LeaderAddress    string `json:"leader_address"`
	LeaderPhone      string `json:"leader_phone"`
	LeaderInstrument string `json:"leader_instrument"`
	LeaderIsPlaying  bool   `json:"leader_is_playing"`
	LeaderDoubling   bool   `json:"leader_doubling"`
	LeaderNumDoubles int    `json:"leader_num_doubles"`
	LeaderCartage    bool   `json:"leader_cartage"`

	Jurisdiction string `json:"jurisdiction,omitempty"`
	ScaleKey     string `json:"scale_key,omitempty"`
}

// SaveEngagementRequest is the step-2 save: hours, the session flags,
// and the full roster (replace-all semantics).
type SaveEngagementRequest struct {
	PerformanceHours   float64              `json:"performance_hours"`
	HasRehearsal       bool                 `json:"has_rehearsal"`
	RehearsalHours     float64              `json:"rehearsal_hours"`
	IsRecorded         bool                 `json:"is_recorded"`
	LeaderIncorporated bool                 `json:"leader_incorporated"`
	Musicians          []MusicianEntryInput `json:"musicians"`
}

// MusicianEntryInput is one submitted roster line.
type MusicianEntryInput struct {
	Name       string `json:"name"`
	CardNo     string `json:"card_no"`
	TaxID      string `json:"tax_id"`
	Instrument string `json:"instrument"`
	Doubling   bool   `json:"doubling"`
	NumDoubles int    `json:"num_doubles"`
	Cartage    bool   `json:"cartage"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u *auth.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toContractDTO(c *contract.Contract) ContractDTO {
	dto := ContractDTO{
		ID:     c.ID,
		Status: string(c.Status),

		Jurisdiction: c.Jurisdiction,
		ScaleKey:     c.ScaleKey,

		EngagementType: c.EngagementType,
		BandName:       c.BandName,
		VenueName:      c.VenueName,
		Borough:        c.Borough,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		IsRecorded:     c.IsRecorded,

		LeaderName:         c.LeaderName,
		LeaderCardNo:       c.LeaderCardNo,
		LeaderTaxID:        c.LeaderTaxID,
		LeaderAddress:      c.LeaderAddress,
		LeaderPhone:        c.LeaderPhone,
		LeaderInstrument:   c.LeaderInstrument,
		LeaderIsPlaying:    c.LeaderIsPlaying,
		LeaderDoubling:     c.LeaderDoubling,
		LeaderNumDoubles:   c.LeaderNumDoubles,
		LeaderCartage:      c.LeaderCartage,
		LeaderIncorporated: c.LeaderIncorporated,

		PerformanceHours: c.PerformanceHours,
		HasRehearsal:     c.HasRehearsal,
		RehearsalHours:   c.RehearsalHours,
		NumMusicians:     c.NumMusicians,

		TotalGross:          c.TotalGross.StringFixed(),
		TotalPension:        c.TotalPension.StringFixed(),
		TotalHealth:         c.TotalHealth.StringFixed(),
		TotalWorkDues:       c.TotalWorkDues.StringFixed(),
		ParticipantsWithPay: c.ParticipantsWithPay,

		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		LastSavedAt: c.LastSavedAt.Format(time.RFC3339),
	}
	if !c.EngagementDate.IsZero() {
		dto.EngagementDate = c.EngagementDate.Format(time.DateOnly)
	}
	return dto
}

func toContractDTOs(contracts []*contract.Contract) []ContractDTO {
	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	return dtos
}

func toMusicianDTOs(musicians []contract.SideMusician) []MusicianDTO {
	dtos := make([]MusicianDTO, len(musicians))
	for i, m := range musicians {
		dtos[i] = MusicianDTO{
			ID:         m.ID,
			Position:   m.Position,
			Name:       m.Name,
			CardNo:     m.CardNo,
			TaxID:      m.TaxID,
			Instrument: m.Instrument,
			Doubling:   m.Doubling,
			NumDoubles: m.NumDoubles,
			Cartage:    m.Cartage,
		}
	}
	return dtos
}

func toPayLineDTOs(lines []contract.PayLine) []PayLineDTO {
	dtos := make([]PayLineDTO, len(lines))
	for i, l := range lines {
		dtos[i] = PayLineDTO{
			Name:           l.Name,
			Instrument:     l.Instrument,
			PerformancePay: l.Pay.PerformancePay.StringFixed(),
			RehearsalPay:   l.Pay.RehearsalPay.StringFixed(),
			OvertimePay:    l.Pay.OvertimePay.StringFixed(),
			DoublingPay:    l.Pay.DoublingPay.StringFixed(),
			CartagePay:     l.Pay.CartagePay.StringFixed(),
			Gross:          l.Pay.Gross.StringFixed(),
			Health:         l.Pay.Health.StringFixed(),
		}
	}
	return dtos
}

func toScaleDTOs(schedules []*engine.RateSchedule) []ScaleDTO {
	dtos := make([]ScaleDTO, len(schedules))
	for i, s := range schedules {
		dto := ScaleDTO{
			Jurisdiction: s.Jurisdiction,
			ScaleKey:     s.ScaleKey,
			Name:         s.Name,
		}
		if !s.EffectiveStart.IsZero() {
			dto.EffectiveStart = s.EffectiveStart.Format(time.DateOnly)
		}
		if !s.EffectiveEnd.IsZero() {
			dto.EffectiveEnd = s.EffectiveEnd.Format(time.DateOnly)
		}
		dtos[i] = dto
	}
	return dtos
}

func detailsFromRequest(req SaveDetailsRequest, date time.Time) contract.DetailsUpdate {
	return contract.DetailsUpdate{
		EngagementDate: date,
		EngagementType: req.EngagementType,
		BandName:       req.BandName,
		VenueName:      req.VenueName,
		Borough:        req.Borough,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,

		LeaderName:       req.LeaderName,
		LeaderCardNo:     req.LeaderCardNo,
		LeaderTaxID:      req.LeaderTaxID,
		LeaderAddress:    req.LeaderAddress,
		LeaderPhone:      req.LeaderPhone,
		LeaderInstrument: req.LeaderInstrument,
		LeaderIsPlaying:  req.LeaderIsPlaying,
		LeaderDoubling:   req.LeaderDoubling,
		LeaderNumDoubles: req.LeaderNumDoubles,
		LeaderCartage:    req.LeaderCartage,

		Jurisdiction: req.Jurisdiction,
		ScaleKey:     req.ScaleKey,
	}
}

func engagementFromRequest(req SaveEngagementRequest) contract.EngagementUpdate {
	musicians := make([]contract.MusicianEntry, len(req.Musicians))
	for i, m := range req.Musicians {
		musicians[i] = contract.MusicianEntry{
			Name:       m.Name,
			CardNo:     m.CardNo,
			TaxID:      m.TaxID,
			Instrument: m.Instrument,
			Doubling:   m.Doubling,
			NumDoubles: m.NumDoubles,
			Cartage:    m.Cartage,
		}
	}
	return contract.EngagementUpdate{
		PerformanceHours:   req.PerformanceHours,
		HasRehearsal:       req.HasRehearsal,
		RehearsalHours:     req.RehearsalHours,
		IsRecorded:         req.IsRecorded,
		LeaderIncorporated: req.LeaderIncorporated,
		Musicians:          musicians,
	}
}
