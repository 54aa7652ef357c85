// services/accounting.go
package services

import (
	"time"

	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountingService aggregates dossier charges and client entries.
// All sums use the stored amounts; nothing is re-derived from rates.
type AccountingService struct {
	db *gorm.DB
}

func NewAccountingService(db *gorm.DB) *AccountingService {
	return &AccountingService{db: db}
}

// VATBucket sums the charges of one VAT partition.
type VATBucket struct {
	Count      int     `json:"count"`
	AmountExcl float64 `json:"amountExcl"`
	VATAmount  float64 `json:"vatAmount"`
	AmountIncl float64 `json:"amountIncl"`
}

// DossierTotals is the aggregate view of one dossier's charges, split
// by VAT treatment.
type DossierTotals struct {
	WithVAT    VATBucket `json:"withVAT"`
	WithoutVAT VATBucket `json:"withoutVAT"`

	// Grand totals: VAT-bearing charges contribute their incl
	// amount, VAT-free charges their excl amount (they have no
	// incl/excl distinction).
	AmountExclTotal float64 `json:"amountExclTotal"`
	VATTotal        float64 `json:"vatTotal"`
	AmountInclTotal float64 `json:"amountInclTotal"`
}

// ComputeDossierTotals partitions a dossier's charges by VAT flag and
// sums each side.
func (s *AccountingService) ComputeDossierTotals(dossierID uuid.UUID) (*DossierTotals, error) {
	var charges []models.DetailedCharge
	if err := s.db.
		Where("dossier_id = ?", dossierID).
		Order("date DESC").
		Find(&charges).Error; err != nil {
		return nil, err
	}

	totals := &DossierTotals{}
	for _, c := range charges {
		if c.HasVAT {
			totals.WithVAT.Count++
			totals.WithVAT.AmountExcl += c.AmountExcl
			totals.WithVAT.VATAmount += c.VATAmount
			totals.WithVAT.AmountIncl += c.AmountIncl
		} else {
			totals.WithoutVAT.Count++
			totals.WithoutVAT.AmountExcl += c.AmountExcl
		}
	}

	totals.AmountExclTotal = totals.WithVAT.AmountExcl + totals.WithoutVAT.AmountExcl
	totals.VATTotal = totals.WithVAT.VATAmount
	totals.AmountInclTotal = totals.WithVAT.AmountIncl + totals.WithoutVAT.AmountExcl
	return totals, nil
}

// TrendPoint is one month of the yearly revenue/charge trend.
type TrendPoint struct {
	Month   int     `json:"month"`
	Entries float64 `json:"entries"`
	Charges float64 `json:"charges"`
}

// AccountingTrend aggregates a client's entries and charges per
// calendar month for one year. All 12 months are pre-seeded to zero.
// Entries are bucketed by their own date while charges are bucketed by
// the owning dossier's month field: dossiers are monthly buckets, so a
// charge belongs to its dossier's period regardless of the date it
// carries.
func (s *AccountingService) AccountingTrend(clientID uuid.UUID, year int) ([]TrendPoint, error) {
	points := make([]TrendPoint, 12)
	for m := 1; m <= 12; m++ {
		points[m-1] = TrendPoint{Month: m}
	}

	yearStart, yearEnd := utils.MonthWindow(year, 1, time.UTC)
	yearEnd = yearStart.AddDate(1, 0, 0)

	var entries []models.ClientEntry
	if err := s.db.
		Where("client_id = ? AND date >= ? AND date < ?", clientID, yearStart, yearEnd).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		m := int(e.Date.Month())
		points[m-1].Entries += e.AmountIncl
	}

	var dossiers []models.AccountingDossier
	if err := s.db.
		Where("client_id = ? AND year = ?", clientID, year).
		Find(&dossiers).Error; err != nil {
		return nil, err
	}
	for _, d := range dossiers {
		if d.Month < 1 || d.Month > 12 {
			continue
		}
		var total float64
		if err := s.db.Model(&models.DetailedCharge{}).
			Where("dossier_id = ?", d.ID).
			Select("COALESCE(SUM(amount_excl), 0)").
			Scan(&total).Error; err != nil {
			return nil, err
		}
		points[d.Month-1].Charges += total
	}

	return points, nil
}
