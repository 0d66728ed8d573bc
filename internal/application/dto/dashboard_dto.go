package dto

import "github.com/shopspring/decimal"

// DashboardResponse indicadores del panel de control.
type DashboardResponse struct {
	TotalProducts   int                     `json:"total_products"`
	TotalCategories int                     `json:"total_categories"`
	RootCategories  int                     `json:"root_categories"`
	StockValue      decimal.Decimal         `json:"stock_value"`
	Currency        string                  `json:"currency"`
	LowStockCount   int                     `json:"low_stock_count"`
	OutOfStockCount int                     `json:"out_of_stock_count"`
	LowStock        []ProductResponse       `json:"low_stock"`
	RecentActivity  []ActivityEntryResponse `json:"recent_activity,omitempty"`
}
