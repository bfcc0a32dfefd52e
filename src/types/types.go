package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_DECLINED  BookingStatus = "declined"
	BOOKING_EXPIRED   BookingStatus = "expired"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_CANCELED PaymentStatus = "canceled"
)

type OfferStatus string

const (
	OFFER_PENDING  OfferStatus = "pending"
	OFFER_ACCEPTED OfferStatus = "accepted"
	OFFER_DECLINED OfferStatus = "declined"
	OFFER_EXPIRED  OfferStatus = "expired"
)

type PayoutStatus string

const (
	PAYOUT_SCHEDULED PayoutStatus = "scheduled"
	PAYOUT_DUE       PayoutStatus = "due"
	PAYOUT_RELEASED  PayoutStatus = "released"
)

type ParticipantRole string

const (
	PARTICIPANT_GUEST ParticipantRole = "guest"
	PARTICIPANT_HOST  ParticipantRole = "host"
)

type MessageType string

const (
	MESSAGE_SYSTEM MessageType = "system"
	MESSAGE_TEXT   MessageType = "text"
)

// GatewayStatus is the normalized result of the provider's one-shot
// transaction validation call.
type GatewayStatus string

const (
	GATEWAY_VALID   GatewayStatus = "VALID"
	GATEWAY_INVALID GatewayStatus = "INVALID"
)

// SettlementOutcome tags the three callback kinds the gateway can deliver
// for a transaction.
type SettlementOutcome string

const (
	SETTLEMENT_CONFIRMED SettlementOutcome = "confirmed"
	SETTLEMENT_FAILED    SettlementOutcome = "failed"
	SETTLEMENT_CANCELED  SettlementOutcome = "canceled"
)

type InitPaymentRequestBody struct {
	BookingID      uint    `json:"booking_id" binding:"required"`
	TotalPrice     float64 `json:"total_price" binding:"required"`
	TotalDiscount  float64 `json:"total_discount,omitempty"`
	TotalGuestFee  float64 `json:"total_guest_fee,omitempty"`
	CleaningCharge float64 `json:"cleaning_charge,omitempty"`
	CurrencyCode   string  `json:"currency" binding:"required"`
	CustomerName   string  `json:"customer_name" binding:"required"`
	CustomerEmail  string  `json:"customer_email" binding:"required,email"`
	CustomerPhone  string  `json:"customer_phone,omitempty"`
}

type SuccessCallbackRequestBody struct {
	ValID    string  `form:"val_id" json:"val_id" binding:"required"`
	TranID   string  `form:"tran_id" json:"tran_id" binding:"required"`
	Amount   float64 `form:"amount" json:"amount,omitempty"`
	CardType string  `form:"card_type" json:"card_type,omitempty"`
}

type FailureCallbackRequestBody struct {
	TranID string `form:"tran_id" json:"tran_id" binding:"required"`
}

type IPNRequestBody struct {
	ValID  string `form:"val_id" json:"val_id,omitempty"`
	TranID string `form:"tran_id" json:"tran_id" binding:"required"`
	Status string `form:"status" json:"status,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterDeviceRequestBody struct {
	Token string `json:"token" binding:"required"`
}

// MessageMetadata is the structured payload carried by outcome TEXT
// messages so clients can render a booking card with a follow-up action.
type MessageMetadata struct {
	BookingID  uint   `json:"booking_id"`
	Status     string `json:"status"`
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Image      string `json:"image,omitempty"`
	ActionText string `json:"action_text"`
	ActionLink string `json:"action_link"`
}

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
