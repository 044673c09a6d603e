package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmarquez/autoglass-backend/pkg/db"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
)

// Summary is the dashboard payload: schedule load plus money totals for the
// requested range.
type Summary struct {
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	AppointmentsToday int64            `json:"appointments_today"`
	AppointmentsWeek  int64            `json:"appointments_week"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByReplacementType map[string]int64 `json:"by_replacement_type"`
	CashRevenue       decimal.Decimal  `json:"cash_revenue"`
	RebateTotal       decimal.Decimal  `json:"rebate_total"`
}

// Service computes the dashboard summary.
type Service struct {
	repo *Repository
	now  func() time.Time
	loc  *time.Location
}

// NewService wires the dashboard service. loc anchors the today/this-week
// windows.
func NewService(repo *Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, now: time.Now, loc: loc}
}

// Summary aggregates the inclusive range [from, to]. Zero values default to
// the current month.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	now := s.now().In(s.loc)

	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	}
	if to.IsZero() {
		to = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, 1, -1)
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	weekStart := startOfWeek(today)

	appointmentsToday, err := s.repo.CountBetween(ctx, today, today)
	if err != nil {
		return nil, db.Classify(err)
	}
	appointmentsWeek, err := s.repo.CountBetween(ctx, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return nil, db.Classify(err)
	}
	byStatus, err := s.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, db.Classify(err)
	}
	byReplacement, err := s.repo.CountByReplacementType(ctx, from, to)
	if err != nil {
		return nil, db.Classify(err)
	}
	cashRevenue, err := s.repo.SumCashRevenue(ctx, from, to)
	if err != nil {
		return nil, db.Classify(err)
	}
	rebateTotal, err := s.repo.SumRebates(ctx, from, to)
	if err != nil {
		return nil, db.Classify(err)
	}

	return &Summary{
		From:              from,
		To:                to,
		AppointmentsToday: appointmentsToday,
		AppointmentsWeek:  appointmentsWeek,
		ByStatus:          byStatus,
		ByReplacementType: byReplacement,
		CashRevenue:       cashRevenue,
		RebateTotal:       rebateTotal,
	}, nil
}

// startOfWeek snaps to the preceding Monday.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}
