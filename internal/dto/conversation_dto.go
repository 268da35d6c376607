package dto

import "time"

type ConversationTurnRequest struct {
	SessionId  string `json:"session_id" validate:"required"`
	CustomerId string `json:"customer_id"`
	Utterance  string `json:"utterance" validate:"required"`
}

// CandidateResponse is one retrieval hit as shown to the caller.
type CandidateResponse struct {
	Id        string   `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	Category  string   `json:"category,omitempty"`
	Diameter  float64  `json:"diameter_mm,omitempty"`
	Stroke    float64  `json:"stroke_mm,omitempty"`
	Features  []string `json:"features,omitempty"`
	Stock     float64  `json:"stock"`
	UnitPrice float64  `json:"unit_price"`
	Score     float64  `json:"score"`
	MatchKind string   `json:"match_kind"` // "exact" | "semantic" | "both"
}

type OrderDraftResponse struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type SlotsResponse struct {
	DiameterMm  *float64 `json:"diameter_mm,omitempty"`
	StrokeMm    *float64 `json:"stroke_mm,omitempty"`
	FeatureTags []string `json:"feature_tags,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Quantity    int      `json:"quantity,omitempty"`
	ProductCode string   `json:"product_code,omitempty"`
}

type ConversationTurnResponse struct {
	SessionId   string              `json:"session_id"`
	Reply       string              `json:"reply"`
	State       string              `json:"state"`
	Slots       SlotsResponse       `json:"slots"`
	Candidates  []CandidateResponse `json:"candidates,omitempty"`
	Draft       *OrderDraftResponse `json:"draft,omitempty"`
	OrderNumber string              `json:"order_number,omitempty"`
}

type TurnHistoryItem struct {
	Utterance string    `json:"utterance"`
	Reply     string    `json:"reply"`
	State     string    `json:"state"`
	At        time.Time `json:"at"`
}

type ShowSessionResponse struct {
	SessionId  string            `json:"session_id"`
	CustomerId string            `json:"customer_id,omitempty"`
	State      string            `json:"state"`
	Slots      SlotsResponse     `json:"slots"`
	Turns      []TurnHistoryItem `json:"turns"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
