package models

import "time"

// DashboardStats are the headline figures shown on the operations dashboard.
type DashboardStats struct {
	TotalAgreements int64   `bson:"total_agreements" json:"totalAgreements"`
	ActiveSaudas    int64   `bson:"active_saudas" json:"activeSaudas"`
	PendingLots     int64   `bson:"pending_lots" json:"pendingLots"`
	TotalPayments   int64   `bson:"total_payments" json:"totalPayments"`
	TotalRevenue    float64 `bson:"total_revenue" json:"totalRevenue"`
	ActiveMills     int64   `bson:"active_mills" json:"activeMills"`
}

// DashboardSnapshot is the daily copy of DashboardStats kept in MongoDB.
type DashboardSnapshot struct {
	Base        `bson:",inline"`
	Date        time.Time      `bson:"date" json:"date"`
	PeriodStart time.Time      `bson:"period_start" json:"period_start"`
	PeriodEnd   time.Time      `bson:"period_end" json:"period_end"`
	Stats       DashboardStats `bson:"stats" json:"stats"`
}

// Validate is a no-op; snapshots are produced internally.
func (s *DashboardSnapshot) Validate() error {
	return nil
}
