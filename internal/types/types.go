package types

import (
	"context"
	"time"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "des"
)

type SortField struct {
	Field string    `json:"field"` // price | page_view | created_at | product_name
	Order SortOrder `json:"order"`
}

// VerificationIndexSearchRequest filters the verification dashboard index.
// Nil or empty filters match everything.
type VerificationIndexSearchRequest struct {
	BrandIDs             []int64     `json:"brand_ids,omitempty"`
	Competitors          []string    `json:"competitors,omitempty"`
	ProductType          []int       `json:"product_type,omitempty"`
	SellerAvailabilities []string    `json:"seller_availabilities,omitempty"` // 1P | 3P
	PageviewBand         []string    `json:"pageview_band,omitempty"`
	Categories           []int64     `json:"categories,omitempty"`
	IsFinishedVerifying  *bool       `json:"is_finished_verifying,omitempty"`
	IsPurchasable        *bool       `json:"is_purchasable,omitempty"`
	ProductNameKeyword   *string     `json:"product_name_keyword,omitempty"`
	Sort                 []SortField `json:"sort,omitempty"`
	Offset               int         `json:"offset"`
	Limit                int         `json:"limit"`
}

// VerificationIndexRequest is a product document submitted for indexing.
type VerificationIndexRequest struct {
	ID                  string   `json:"id" validate:"required,max=64"`
	SuperID             *int64   `json:"super_id,omitempty"`
	ProductName         string   `json:"product_name" validate:"required"`
	MasterProductSKU    string   `json:"master_product_sku,omitempty"`
	ProductSKUs         []string `json:"product_skus,omitempty"`
	CategoryID          *int64   `json:"category_id,omitempty"`
	CategoryIDs         []int64  `json:"category_ids,omitempty"`
	CategoryName        string   `json:"category_name,omitempty"`
	SubcategoryName     string   `json:"subcategory_name,omitempty"`
	BrandID             *int64   `json:"brand_id,omitempty"`
	ProductType         int      `json:"product_type"`
	Competitors         []string `json:"competitors,omitempty"`
	SellerID            int64    `json:"seller_id"`
	Price               float64  `json:"price" validate:"gte=0"`
	IsPurchasable       bool     `json:"is_purchasable"`
	Is1PAvailable       bool     `json:"is_1p_available"`
	Is3PAvailable       bool     `json:"is_3p_available"`
	IsFinishedVerifying *bool    `json:"is_finished_verifying,omitempty"`
	PageviewBand        *string  `json:"pageview_band,omitempty" validate:"omitempty,oneof=A B C D"`
	PageviewL30D        *int64   `json:"pageview_l30d,omitempty" validate:"omitempty,gte=0"`
	CreatedAt           string   `json:"created_at,omitempty"`
	LastUpdatedAt       string   `json:"last_updated_at,omitempty"`
}

// VerificationDashboardIndex is a stored index document.
type VerificationDashboardIndex struct {
	VerificationIndexRequest
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
}

type OverviewReport struct {
	Date time.Time `json:"date"`
	URL  string    `json:"url"`
}

// IndexService owns the verification dashboard index.
type IndexService interface {
	Search(ctx context.Context, req VerificationIndexSearchRequest) ([]VerificationDashboardIndex, error)
	Count(ctx context.Context, req VerificationIndexSearchRequest) (int64, error)
	CreateIndex(ctx context.Context, doc VerificationIndexRequest) error
	CreateIndexBulk(ctx context.Context, docs []VerificationIndexRequest) error
	FindByID(ctx context.Context, id string) (*VerificationDashboardIndex, error)
	DeleteIndex(ctx context.Context, id string) error
}

// StreamProcessor recomputes the index documents of one master product.
type StreamProcessor interface {
	ProcessVerificationDashboardIndex(ctx context.Context, masterProductID int64) error
}

// ReportService looks up generated competitor crawling reports.
type ReportService interface {
	FindOverviewReportByDate(ctx context.Context, date time.Time) (string, error)
}
