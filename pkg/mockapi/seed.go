package mockapi

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// SeedBusinessID is the business the seeded account belongs to.
const SeedBusinessID = "2f838e01-7b68-4b82-bf87-65f29e0ccfb6"

// Seeded record counts.
const (
	SeedBookings = 40
	SeedCallLogs = 100
)

var seedServices = []Row{
	{"name": "Initial Consultation", "description": "A comprehensive first-time assessment of your needs.", "duration_minutes": 60, "price": 120.0, "booking_buffer_minutes": 15, "max_advance_booking_days": 30, "practitioner_name": "Dr. Sarah Johnson", "category": "Consultation"},
	{"name": "Wellness Check", "description": "Regular wellness check and assessment.", "duration_minutes": 45, "price": 90.0, "booking_buffer_minutes": 10, "max_advance_booking_days": 60, "practitioner_name": "Dr. Michael Lee", "category": "Regular Check"},
	{"name": "Therapy Session", "description": "One-on-one therapy session.", "duration_minutes": 50, "price": 110.0, "booking_buffer_minutes": 10, "max_advance_booking_days": 30, "practitioner_name": "Dr. Emily Chen", "category": "Therapy"},
	{"name": "Treatment Plan Review", "description": "Review and adjust your ongoing treatment plan.", "duration_minutes": 30, "price": 75.0, "booking_buffer_minutes": 5, "max_advance_booking_days": 14, "practitioner_name": "Dr. Robert Wilson", "category": "Treatment"},
}

var seedFAQs = []Row{
	{"question": "What are your opening hours?", "answer": "Monday to Friday 9:00 to 18:00, Saturday 10:00 to 14:00.", "category": "General"},
	{"question": "Where are you located?", "answer": "123 Main Street, Springfield.", "category": "General"},
	{"question": "Do you accept insurance?", "answer": "We accept most major insurance plans.", "category": "Billing"},
	{"question": "How do I cancel an appointment?", "answer": "Call us at least 24 hours ahead or reply to your confirmation message.", "category": "Bookings"},
	{"question": "Can I reschedule online?", "answer": "Yes, use the link in your confirmation email.", "category": "Bookings"},
	{"question": "What should I bring to my first visit?", "answer": "Photo ID, insurance card and any recent test results.", "category": "Appointments"},
	{"question": "Is parking available?", "answer": "Free parking is available behind the building.", "category": "General"},
	{"question": "Which payment methods do you accept?", "answer": "Cash, card and bank transfer.", "category": "Billing"},
	{"question": "Do you offer video consultations?", "answer": "Yes, for follow-up appointments.", "category": "Appointments"},
	{"question": "How long does a session last?", "answer": "Between 30 and 60 minutes depending on the service.", "category": "Appointments"},
	{"question": "Do you treat children?", "answer": "We see patients from age 12.", "category": "General"},
	{"question": "Is there a cancellation fee?", "answer": "Late cancellations are charged 50% of the service price.", "category": "Billing"},
}

var (
	bookingStatuses = []string{"confirmed", "pending", "completed", "cancelled"}
	callIntents     = []string{"booking", "information", "rescheduling", "cancellation", "complaint", "general"}
	bookingChannels = []string{"ai_phone", "web", "manual"}
)

// Seed fills the state with one business, its owner and a deterministic set
// of services, bookings, FAQs and call logs dated relative to now.
func (s *State) Seed(now time.Time) {
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // fixture data
	stamp := func(t time.Time) string { return t.UTC().Format(time.RFC3339) }
	created := stamp(now.AddDate(0, -6, 0))

	s.mu.Lock()
	s.tables["businesses"] = append(s.tables["businesses"], Row{
		"id":                  SeedBusinessID,
		"name":                "Springfield Wellness Clinic",
		"description":         "Family practice and therapy.",
		"phone":               "+15550100",
		"email":               DefaultEmail,
		"address":             "123 Main Street",
		"city":                "Springfield",
		"country":             "US",
		"timezone":            "America/New_York",
		"is_active":           true,
		"subscription_status": "active",
		"created_at":          created,
		"updated_at":          created,
	})

	serviceIDs := make([]string, len(seedServices))
	for i, svc := range seedServices {
		row := copyRow(svc)
		serviceIDs[i] = uuid.NewString()
		row["id"] = serviceIDs[i]
		row["business_id"] = SeedBusinessID
		row["currency"] = "USD"
		row["is_active"] = i != len(seedServices)-1
		row["created_at"] = created
		row["updated_at"] = created
		s.tables["services"] = append(s.tables["services"], row)
	}

	for i := range SeedBookings {
		service := seedServices[rng.IntN(len(seedServices))]
		day := now.AddDate(0, 0, rng.IntN(60)-30)
		amount := service["price"].(float64)
		bookedAt := stamp(day.AddDate(0, 0, -rng.IntN(10)-1))

		s.tables["bookings"] = append(s.tables["bookings"], Row{
			"id":                uuid.NewString(),
			"business_id":       SeedBusinessID,
			"service_id":        serviceIDs[rng.IntN(len(serviceIDs))],
			"customer_name":     fmt.Sprintf("Customer %d", i+1),
			"customer_phone":    fmt.Sprintf("+1%010d", rng.Int64N(10_000_000_000)),
			"customer_email":    fmt.Sprintf("customer%d@example.com", i+1),
			"appointment_date":  day.Format(time.DateOnly),
			"appointment_time":  fmt.Sprintf("%02d:%s", 9+rng.IntN(8), []string{"00", "30"}[rng.IntN(2)]),
			"duration_minutes":  service["duration_minutes"],
			"status":            bookingStatuses[rng.IntN(len(bookingStatuses))],
			"notes":             "Sample booking",
			"total_amount":      amount,
			"currency":          "USD",
			"payment_status":    "pending",
			"reminder_sent":     false,
			"confirmation_sent": true,
			"created_via":       bookingChannels[rng.IntN(len(bookingChannels))],
			"created_at":        bookedAt,
			"updated_at":        bookedAt,
		})
	}

	for i, faq := range seedFAQs {
		row := copyRow(faq)
		row["id"] = uuid.NewString()
		row["business_id"] = SeedBusinessID
		row["is_active"] = i%5 != 4
		row["usage_count"] = rng.IntN(50)
		row["created_at"] = stamp(now.AddDate(0, 0, -i*3))
		row["updated_at"] = row["created_at"]
		s.tables["faqs"] = append(s.tables["faqs"], row)
	}

	for i := range SeedCallLogs {
		started := now.Add(-time.Duration(rng.IntN(90*24*60)) * time.Minute)
		duration := rng.IntN(600) + 60
		booked := rng.Float64() > 0.6

		score := rng.IntN(5) + 1
		if booked {
			score = rng.IntN(2) + 4
		}

		status := "completed"
		if i%10 == 9 {
			status = "missed"
		}

		row := Row{
			"id":                          uuid.NewString(),
			"business_id":                 SeedBusinessID,
			"caller_phone":                fmt.Sprintf("+1%010d", rng.Int64N(10_000_000_000)),
			"call_duration_seconds":       duration,
			"call_status":                 status,
			"intent_detected":             callIntents[rng.IntN(len(callIntents))],
			"transcript":                  "Sample transcript of the call.",
			"ai_summary":                  "Customer called to ask about services.",
			"lead_to_booking":             booked,
			"customer_satisfaction_score": score,
			"call_cost":                   float64(duration) / 60 * 0.02,
			"started_at":                  stamp(started),
			"ended_at":                    stamp(started.Add(time.Duration(duration) * time.Second)),
			"created_at":                  stamp(started),
		}
		if rng.Float64() > 0.3 {
			row["caller_name"] = fmt.Sprintf("Caller %d", i+1)
		}

		s.tables["call_logs"] = append(s.tables["call_logs"], row)
	}
	s.mu.Unlock()

	s.AddAccount(Account{
		Email:      DefaultEmail,
		Password:   DefaultPassword,
		BusinessID: SeedBusinessID,
		FullName:   "Clinic Owner",
	})
}
