package restaurant

import (
	"encoding/json"
	"time"

	"foodshop/internal/schedule"

	"github.com/lib/pq"
)

const (
	PaymentOnSite = "on_site"
	PaymentOnline = "online"
	PaymentWallet = "wallet"
)

type Restaurant struct {
	ID                    int            `db:"id" json:"id"`
	Name                  string         `db:"name" json:"name"`
	Address               string         `db:"address" json:"address"`
	AcceptingOrders       bool           `db:"accepting_orders" json:"accepting_orders"`
	ProcessorAccountReady bool           `db:"processor_account_ready" json:"processor_account_ready"`
	AcceptedPayments      pq.StringArray `db:"accepted_payments" json:"accepted_payments"`
	WeeklySchedule        []byte         `db:"weekly_schedule" json:"-"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
}

// Schedule parses the stored weekly schedule. An empty column means no
// schedule is configured and the restaurant is never open.
func (r *Restaurant) Schedule() (schedule.Week, error) {
	return schedule.ParseWeek(r.WeeklySchedule)
}

func (r *Restaurant) AcceptsPayment(method string) bool {
	for _, m := range r.AcceptedPayments {
		if m == method {
			return true
		}
	}
	return false
}

// MarshalJSON exposes the schedule as structured JSON instead of raw bytes.
func (r Restaurant) MarshalJSON() ([]byte, error) {
	type alias Restaurant
	var sched json.RawMessage
	if len(r.WeeklySchedule) > 0 {
		sched = json.RawMessage(r.WeeklySchedule)
	}
	return json.Marshal(struct {
		alias
		WeeklySchedule json.RawMessage `json:"weekly_schedule,omitempty"`
	}{alias(r), sched})
}

type HoursResponse struct {
	OpenNow     bool       `json:"open_now"`
	NextOpening *time.Time `json:"next_opening,omitempty"`
}

type PickupSlotsResponse struct {
	Slots []time.Time `json:"slots"`
}
