package api

import "time"

// Tables exposed by the REST API.
const (
	TableBookings   = "bookings"
	TableServices   = "services"
	TableFAQs       = "faqs"
	TableCallLogs   = "call_logs"
	TableBusinesses = "businesses"
	TableUsers      = "users"
)

// RecordTables lists the tables the dashboard lists and subscribes to.
var RecordTables = []string{TableBookings, TableServices, TableFAQs, TableCallLogs}

// Booking status.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Active flag rendered as a status.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Call status.
const (
	CallStatusCompleted = "completed"
	CallStatusMissed    = "missed"
)

// Call outcome derived from lead_to_booking.
const (
	OutcomeBooked    = "booked"
	OutcomeNotBooked = "not_booked"
)

// HTTP Methods.
const (
	HTTPMethodGET    = "GET"
	HTTPMethodPOST   = "POST"
	HTTPMethodPATCH  = "PATCH"
	HTTPMethodDELETE = "DELETE"
)

// API Endpoints.
const (
	EndpointToken    = "/auth/v1/token"
	EndpointUser     = "/auth/v1/user"
	EndpointLogout   = "/auth/v1/logout"
	EndpointRest     = "/rest/v1/"
	EndpointRealtime = "/realtime/v1/websocket"
)

// Request defaults.
const (
	DefaultRetries    = 3
	DefaultTimeout    = 30 * time.Second
	DefaultRecordsTTL = 5 * time.Minute
	UserAgent         = "lynva-tui"
)
