package api

// Business is the tenant every record belongs to.
type Business struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	Country            string `json:"country"`
	Timezone           string `json:"timezone"`
	Website            string `json:"website,omitempty"`
	IsActive           bool   `json:"is_active"`
	SubscriptionStatus string `json:"subscription_status"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// User is the dashboard account linked to a business.
type User struct {
	ID            string `json:"id"`
	BusinessID    string `json:"business_id,omitempty"`
	Email         string `json:"email"`
	FullName      string `json:"full_name,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// Booking is an appointment taken by phone, web or the AI receptionist.
type Booking struct {
	ID               string   `json:"id"`
	BusinessID       string   `json:"business_id"`
	ServiceID        string   `json:"service_id,omitempty"`
	CustomerName     string   `json:"customer_name"`
	CustomerPhone    string   `json:"customer_phone"`
	CustomerEmail    string   `json:"customer_email,omitempty"`
	AppointmentDate  string   `json:"appointment_date"`
	AppointmentTime  string   `json:"appointment_time"`
	DurationMinutes  int      `json:"duration_minutes"`
	Status           string   `json:"status"`
	Notes            string   `json:"notes,omitempty"`
	TotalAmount      *float64 `json:"total_amount,omitempty"`
	Currency         string   `json:"currency"`
	PaymentStatus    string   `json:"payment_status"`
	ReminderSent     bool     `json:"reminder_sent"`
	ConfirmationSent bool     `json:"confirmation_sent"`
	CreatedVia       string   `json:"created_via"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// Amount returns the booking total, 0 when unset.
func (b Booking) Amount() float64 {
	return deref(b.TotalAmount)
}

// Service is a bookable offering of the business.
type Service struct {
	ID                    string   `json:"id"`
	BusinessID            string   `json:"business_id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description,omitempty"`
	DurationMinutes       int      `json:"duration_minutes"`
	Price                 *float64 `json:"price,omitempty"`
	Currency              string   `json:"currency"`
	IsActive              bool     `json:"is_active"`
	BookingBufferMinutes  int      `json:"booking_buffer_minutes"`
	MaxAdvanceBookingDays int      `json:"max_advance_booking_days"`
	PractitionerName      string   `json:"practitioner_name,omitempty"`
	Category              string   `json:"category,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

// PriceValue returns the price, 0 when unset.
func (s Service) PriceValue() float64 {
	return deref(s.Price)
}

// FAQ is a question the AI receptionist can answer.
type FAQ struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category,omitempty"`
	IsActive   bool   `json:"is_active"`
	UsageCount int    `json:"usage_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// CallLog is one call handled by the AI receptionist.
type CallLog struct {
	ID                        string   `json:"id"`
	BusinessID                string   `json:"business_id"`
	CallerPhone               string   `json:"caller_phone,omitempty"`
	CallerName                string   `json:"caller_name,omitempty"`
	CallDurationSeconds       *int     `json:"call_duration_seconds,omitempty"`
	CallStatus                string   `json:"call_status,omitempty"`
	IntentDetected            string   `json:"intent_detected,omitempty"`
	Transcript                string   `json:"transcript,omitempty"`
	AISummary                 string   `json:"ai_summary,omitempty"`
	BookingID                 string   `json:"booking_id,omitempty"`
	LeadToBooking             bool     `json:"lead_to_booking"`
	CustomerSatisfactionScore *int     `json:"customer_satisfaction_score,omitempty"`
	CallCost                  *float64 `json:"call_cost,omitempty"`
	StartedAt                 string   `json:"started_at,omitempty"`
	EndedAt                   string   `json:"ended_at,omitempty"`
	CreatedAt                 string   `json:"created_at"`
}

// Duration returns the call length in seconds, 0 when unset.
func (c CallLog) Duration() float64 {
	if c.CallDurationSeconds == nil {
		return 0
	}

	return float64(*c.CallDurationSeconds)
}

// Cost returns the call cost, 0 when unset.
func (c CallLog) Cost() float64 {
	return deref(c.CallCost)
}

// StartTime returns started_at, falling back to created_at.
func (c CallLog) StartTime() string {
	if c.StartedAt != "" {
		return c.StartedAt
	}

	return c.CreatedAt
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
