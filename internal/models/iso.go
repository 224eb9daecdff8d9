package models

import "time"

// IsoData is a country/currency reference row maintained by admins.
// CountryAlpha2 is the ISO 3166-1 alpha-2 code; currency fields follow
// ISO 4217. Inactive rows are hidden from non-admin lookups.
type IsoData struct {
	CountryAlpha2      string `badgerhold:"key"`
	CountryName        string
	CurrencyCode       string `badgerhold:"index"`
	CurrencyName       string
	CurrencyMinorUnits int
	Active             bool
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedBy          string
	UpdatedAt          *time.Time
	ActivatedBy        string
	ActivatedAt        *time.Time
	DeactivatedBy      string
	DeactivatedAt      *time.Time
}
