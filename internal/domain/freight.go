package domain

import "time"

// RateRow is one lane quote from a DAT rate export. Nil pointers are stored as NULL.
type RateRow struct {
	Name                  *string
	OriginCity            *string
	OriginState           *string
	OriginPostalCode      *string
	DestinationCity       *string
	DestinationState      *string
	DestinationPostalCode *string
	DistanceMi            *float64
	Equipment             *string
	VolumeCommitted       *int64
	VolumeTotal           *int64
	Fuel                  *float64
	TargetBuyPerMile      *float64
	TargetBuyPerTrip      *float64
	TargetSellPerMile     *float64
	TargetSellPerTrip     *float64
	Status                *string
}

// UploadedFile records one imported CSV.
type UploadedFile struct {
	ID         int64      `json:"id"`
	Filename   string     `json:"filename"`
	FileDate   *time.Time `json:"file_date"`
	RowCount   int        `json:"row_count"`
	Status     string     `json:"status"`
	ObjectKey  *string    `json:"object_key,omitempty"`
	UploadedBy string     `json:"uploaded_by,omitempty"`
	UploadDate time.Time  `json:"upload_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

const FileStatusCompleted = "completed"

type EquipmentCount struct {
	Equipment string `json:"equipment"`
	Count     int64  `json:"count"`
}

type RouteCount struct {
	OriginState      string `json:"origin_state"`
	DestinationState string `json:"destination_state"`
	Count            int64  `json:"count"`
}

type DateRange struct {
	EarliestDate *time.Time `json:"earliest_date"`
	LatestDate   *time.Time `json:"latest_date"`
}

// Stats aggregates the imported rate history.
type Stats struct {
	TotalRows          int64            `json:"totalRows"`
	TotalFiles         int64            `json:"totalFiles"`
	UniqueRoutes       int64            `json:"uniqueRoutes"`
	EquipmentBreakdown []EquipmentCount `json:"equipmentBreakdown"`
	TopRoutes          []RouteCount     `json:"topRoutes"`
	DateRange          DateRange        `json:"dateRange"`
}
