package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dat-archive/internal/domain"
)

// Export column headers.
const (
	colName                  = "Name"
	colOriginCity            = "Origin City"
	colOriginState           = "Origin State"
	colOriginPostalCode      = "Origin Postal Code"
	colDestinationCity       = "Destination City"
	colDestinationState      = "Destination State"
	colDestinationPostalCode = "Destination Postal Code"
	colDistance              = "Distance(MI)"
	colEquipment             = "Equipment"
	colVolumeCommitted       = "Volume: Committed"
	colVolumeTotal           = "Volume: Total"
	colFuel                  = "Fuel"
	colTargetBuyPerMile      = "Target Buy/Mile"
	colTargetBuyPerTrip      = "Target Buy/Trip"
	colTargetSellPerMile     = "Target Sell/Mile"
	colTargetSellPerTrip     = "Target Sell/Trip"
	colStatus                = "Status"
)

var (
	filenameDate  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseRates reads a DAT rate export with a header row. Rows whose cells are
// all empty are skipped. Unknown columns are ignored and missing ones read as NULL.
func ParseRates(r io.Reader) ([]domain.RateRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[h] = i
	}

	var rows []domain.RateRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		rows = append(rows, domain.RateRow{
			Name:                  cleanText(get(colName)),
			OriginCity:            cleanText(get(colOriginCity)),
			OriginState:           cleanText(get(colOriginState)),
			OriginPostalCode:      cleanText(get(colOriginPostalCode)),
			DestinationCity:       cleanText(get(colDestinationCity)),
			DestinationState:      cleanText(get(colDestinationState)),
			DestinationPostalCode: cleanText(get(colDestinationPostalCode)),
			DistanceMi:            cleanNumeric(get(colDistance)),
			Equipment:             cleanText(get(colEquipment)),
			VolumeCommitted:       cleanInteger(get(colVolumeCommitted)),
			VolumeTotal:           cleanInteger(get(colVolumeTotal)),
			Fuel:                  cleanNumeric(get(colFuel)),
			TargetBuyPerMile:      cleanNumeric(get(colTargetBuyPerMile)),
			TargetBuyPerTrip:      cleanNumeric(get(colTargetBuyPerTrip)),
			TargetSellPerMile:     cleanNumeric(get(colTargetSellPerMile)),
			TargetSellPerTrip:     cleanNumeric(get(colTargetSellPerTrip)),
			Status:                cleanText(get(colStatus)),
		})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

func cleanText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// cleanNumeric parses the leading number in v, so "12.5 mi" reads as 12.5.
func cleanNumeric(v string) *float64 {
	m := leadingNumber.FindString(strings.TrimSpace(v))
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// cleanInteger truncates the parsed number toward zero.
func cleanInteger(v string) *int64 {
	f := cleanNumeric(v)
	if f == nil || math.Abs(*f) >= math.MaxInt64 {
		return nil
	}
	n := int64(math.Trunc(*f))
	return &n
}

// DateFromFilename returns the first YYYY-MM-DD date embedded in filename.
func DateFromFilename(filename string) *time.Time {
	m := filenameDate.FindString(filename)
	if m == "" {
		return nil
	}
	d, err := time.Parse(time.DateOnly, m)
	if err != nil {
		return nil
	}
	return &d
}
