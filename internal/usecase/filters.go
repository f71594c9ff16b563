package usecase

import (
	"sort"
	"strings"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

// FilterAll disables an equality filter, as does the empty string.
const FilterAll = "all"

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const recentTransactions = 10

type CodeFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Type     string `json:"type"`
	Platform string `json:"platform"`
}

func (f CodeFilter) query() repository.CodeQuery {
	var q repository.CodeQuery
	if !isAll(f.Status) {
		q.Status = model.CodeStatus(f.Status)
	}
	if !isAll(f.Type) {
		q.Type = model.CodeType(f.Type)
	}
	if !isAll(f.Platform) {
		q.Platform = f.Platform
	}
	return q
}

type TransactionFilter struct {
	Search   string `json:"search"`
	Platform string `json:"platform"`
	Period   string `json:"period"` // today | week | month | all
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, FilterAll)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// FilterCodes keeps the codes matching every active criterion, in input order.
// Search is a case-insensitive substring match on the code or the platform.
func FilterCodes(codes []*model.RechargeCode, f CodeFilter) []*model.RechargeCode {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*model.RechargeCode, 0, len(codes))
	for _, c := range codes {
		if search != "" && !containsFold(c.Code, search) && !containsFold(c.Platform, search) {
			continue
		}
		if !isAll(f.Status) && string(c.Status) != f.Status {
			continue
		}
		if !isAll(f.Type) && string(c.Type) != f.Type {
			continue
		}
		if !isAll(f.Platform) && c.Platform != f.Platform {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterTransactions keeps the transactions matching every active criterion, in input order.
// Search covers the code, the platform and the buyer name.
func FilterTransactions(txs []*model.Transaction, f TransactionFilter, now time.Time) []*model.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	since, windowed := periodStart(f.Period, now)
	out := make([]*model.Transaction, 0, len(txs))
	for _, t := range txs {
		if search != "" && !containsFold(t.Code, search) && !containsFold(t.Platform, search) && !containsFold(t.SoldTo, search) {
			continue
		}
		if !isAll(f.Platform) && t.Platform != f.Platform {
			continue
		}
		if windowed && t.SaleDate.Before(since) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// periodStart returns the inclusive lower bound of a named period.
// Unknown or empty periods are unbounded.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodToday:
		return startOfDay(now), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

func startOfDay(now time.Time) time.Time {
	y, m, d := now.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func startOfMonth(now time.Time) time.Time {
	y, m, _ := now.In(time.Local).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
}

// ComputeStats derives the dashboard figures. Day and month boundaries use local time.
func ComputeStats(codes []*model.RechargeCode, txs []*model.Transaction, now time.Time) model.DashboardStats {
	st := model.DashboardStats{TotalCodes: len(codes)}
	for _, c := range codes {
		switch c.Status {
		case model.CodeStatusAvailable:
			st.AvailableCodes++
		case model.CodeStatusSold:
			st.SoldCodes++
		case model.CodeStatusExpired:
			st.ExpiredCodes++
		}
	}

	today, month := startOfDay(now), startOfMonth(now)
	for _, t := range txs {
		st.TotalRevenue += t.SalePrice
		st.TotalProfit += t.Profit
		if !t.SaleDate.Before(today) {
			st.TodaysSales++
		}
		if !t.SaleDate.Before(month) {
			st.MonthlyRevenue += t.SalePrice
		}
	}

	recent := make([]*model.Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > recentTransactions {
		recent = recent[:recentTransactions]
	}
	st.RecentTransactions = recent
	return st
}

// TransactionSummary totals a filtered transaction list.
type TransactionSummary struct {
	Count     int      `json:"count"`
	Revenue   float64  `json:"revenue"`
	Profit    float64  `json:"profit"`
	Platforms []string `json:"platforms"`
}

// Summarize totals txs; Platforms lists the distinct platforms in first-seen order.
func Summarize(txs []*model.Transaction) TransactionSummary {
	s := TransactionSummary{Count: len(txs), Platforms: []string{}}
	seen := map[string]bool{}
	for _, t := range txs {
		s.Revenue += t.SalePrice
		s.Profit += t.Profit
		if !seen[t.Platform] {
			seen[t.Platform] = true
			s.Platforms = append(s.Platforms, t.Platform)
		}
	}
	return s
}
