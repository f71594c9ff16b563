package model

// DashboardStats aggregates inventory and sales figures for the dashboard.
type DashboardStats struct {
	TotalCodes         int            `json:"totalCodes"`
	AvailableCodes     int            `json:"availableCodes"`
	SoldCodes          int            `json:"soldCodes"`
	ExpiredCodes       int            `json:"expiredCodes"`
	TotalRevenue       float64        `json:"totalRevenue"`
	TotalProfit        float64        `json:"totalProfit"`
	TodaysSales        int            `json:"todaysSales"`
	MonthlyRevenue     float64        `json:"monthlyRevenue"`
	RecentTransactions []*Transaction `json:"recentTransactions"`
}
