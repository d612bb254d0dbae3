package services

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultQualifyingStatuses are the order statuses counted as revenue when
// no other set is configured.
var DefaultQualifyingStatuses = []models.OrderStatus{models.OrderStatusPaid}

// RevenueOptions configures which orders count as today's revenue
type RevenueOptions struct {
	// Location decides where a calendar day starts and ends. Defaults to UTC.
	Location *time.Location
	// QualifyingStatuses are the statuses counted as revenue
	QualifyingStatuses []models.OrderStatus
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// RevenueService computes the daily revenue and maintains the ledger
type RevenueService interface {
	// CalculateTotalRevenue sums the totals of today's qualifying orders. It returns zero when there are none.
	CalculateTotalRevenue(ctx context.Context) (decimal.Decimal, error)
	// CloseShiftAndSaveRevenue stores today's revenue, overwriting an earlier close of the same day
	CloseShiftAndSaveRevenue(ctx context.Context) (models.Revenue, error)
	// ListRevenue returns the ledger, newest date first
	ListRevenue(ctx context.Context) ([]models.Revenue, error)
}

type revenueService struct {
	db       *gorm.DB
	location *time.Location
	statuses []models.OrderStatus
	now      func() time.Time
}

// NewRevenueService creates a new instance of RevenueService
func NewRevenueService(db *gorm.DB, opts RevenueOptions) RevenueService {
	s := &revenueService{
		db:       db,
		location: opts.Location,
		statuses: opts.QualifyingStatuses,
		now:      opts.Now,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if len(s.statuses) == 0 {
		s.statuses = DefaultQualifyingStatuses
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// businessDay is the current calendar day in the configured location
type businessDay struct {
	start time.Time
	end   time.Time
}

func (s *revenueService) today() businessDay {
	y, m, d := s.now().In(s.location).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.location)
	return businessDay{start: start, end: start.AddDate(0, 0, 1)}
}

func (s *revenueService) CalculateTotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.sumQualifying(s.db.WithContext(ctx), s.today())
	if err != nil {
		return decimal.Zero, wrapError("calculate total revenue", err)
	}
	return total, nil
}

func (s *revenueService) CloseShiftAndSaveRevenue(ctx context.Context) (models.Revenue, error) {
	day := s.today()
	y, m, d := day.start.Date()
	date := models.LedgerDate(y, m, d)

	var record models.Revenue
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total, err := s.sumQualifying(tx, day)
		if err != nil {
			return err
		}

		// Last write wins: a second close of the same day overwrites the total.
		upsert := models.Revenue{Date: date, TotalRevenue: total}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_revenue"}),
		}).Create(&upsert).Error; err != nil {
			return err
		}
		return tx.Where("date = ?", date).First(&record).Error
	})
	if err != nil {
		return models.Revenue{}, wrapError("close shift", err)
	}

	log.WithFields(logrus.Fields{
		"date":          record.Day(),
		"total_revenue": record.TotalRevenue.StringFixed(2),
		"revenue_id":    record.ID,
	}).Info("shift closed")
	return record, nil
}

func (s *revenueService) ListRevenue(ctx context.Context) ([]models.Revenue, error) {
	records := []models.Revenue{}
	if err := s.db.WithContext(ctx).Order("date desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list revenue: %w", err)
	}
	return records, nil
}

func (s *revenueService) sumQualifying(db *gorm.DB, day businessDay) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total_price)").
		Where("status IN ?", s.statuses).
		Where("created_at >= ? AND created_at < ?", day.start.UTC(), day.end.UTC()).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum qualifying orders: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}
