package sales

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tillpointhq/tillpoint-backend/pkg/db"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

// SaleRow is the local history copy of an upstream sale record. The shop
// API stays the source of truth; rows here only back the offline history
// and stats views.
type SaleRow struct {
	ID            string `gorm:"primaryKey"`
	AdminName     string
	AdminNumber   string
	ShopID        string `gorm:"index"`
	Branch        int
	PaymentMethod string
	TotalPrice    float64
	TotalNetPrice float64
	Profit        float64
	SaleTime      string
	SaleDay       int
	SalesMonth    int `gorm:"index"`
	SalesYear     int `gorm:"index"`
	SyncedAt      time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (SaleRow) TableName() string {
	return "sale_history"
}

// Repo is the write-through store for sale history.
type Repo struct {
	client *db.Client
}

// NewRepo builds the history repo and migrates its schema.
func NewRepo(client *db.Client) (*Repo, error) {
	if client == nil {
		return &Repo{}, nil
	}
	if err := client.DB().AutoMigrate(&SaleRow{}); err != nil {
		return nil, err
	}
	return &Repo{client: client}, nil
}

func (r *Repo) enabled() bool {
	return r != nil && r.client != nil
}

// SaveAll upserts a batch of upstream records into the local history.
func (r *Repo) SaveAll(ctx context.Context, records []shopapi.SaleRecord) error {
	if !r.enabled() || len(records) == 0 {
		return nil
	}

	rows := make([]SaleRow, 0, len(records))
	now := time.Now().UTC()
	for _, record := range records {
		if record.ID == "" {
			continue
		}
		rows = append(rows, rowFromRecord(record, now))
	}
	if len(rows) == 0 {
		return nil
	}

	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// Save upserts a single record, used after a fulfilled checkout.
func (r *Repo) Save(ctx context.Context, record *shopapi.SaleRecord) error {
	if !r.enabled() || record == nil || record.ID == "" {
		return nil
	}
	row := rowFromRecord(*record, time.Now().UTC())
	return r.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// Recent lists the newest local rows, capped at limit.
func (r *Repo) Recent(ctx context.Context, limit int) ([]shopapi.SaleRecord, error) {
	if !r.enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	var rows []SaleRow
	err := r.client.DB().WithContext(ctx).
		Order("sale_time DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]shopapi.SaleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

// ByID looks up a single local row.
func (r *Repo) ByID(ctx context.Context, id string) (*shopapi.SaleRecord, error) {
	if !r.enabled() || id == "" {
		return nil, nil
	}

	var row SaleRow
	err := r.client.DB().WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	record := recordFromRow(row)
	return &record, nil
}

func rowFromRecord(record shopapi.SaleRecord, syncedAt time.Time) SaleRow {
	return SaleRow{
		ID:            record.ID,
		AdminName:     record.AdminName,
		AdminNumber:   record.AdminNumber,
		ShopID:        record.ShopID,
		Branch:        record.Branch,
		PaymentMethod: record.PaymentMethod,
		TotalPrice:    record.TotalPrice.Float(),
		TotalNetPrice: record.TotalNetPrice.Float(),
		Profit:        record.Profit.Float(),
		SaleTime:      record.SaleTime,
		SaleDay:       record.SaleDay,
		SalesMonth:    record.SalesMonth,
		SalesYear:     record.SalesYear,
		SyncedAt:      syncedAt,
	}
}

func recordFromRow(row SaleRow) shopapi.SaleRecord {
	return shopapi.SaleRecord{
		ID:            row.ID,
		AdminName:     row.AdminName,
		AdminNumber:   row.AdminNumber,
		ShopID:        row.ShopID,
		Branch:        row.Branch,
		PaymentMethod: row.PaymentMethod,
		TotalPrice:    types.AmountFromFloat(row.TotalPrice),
		TotalNetPrice: types.AmountFromFloat(row.TotalNetPrice),
		Profit:        types.AmountFromFloat(row.Profit),
		SaleTime:      row.SaleTime,
		SaleDay:       row.SaleDay,
		SalesMonth:    row.SalesMonth,
		SalesYear:     row.SalesYear,
	}
}
