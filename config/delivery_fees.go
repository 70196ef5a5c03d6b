package config

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DeliveryFeeTable maps a destination district to its flat shipping fee in VND
type DeliveryFeeTable struct {
	Districts map[string]int64 `json:"districts"`
	Default   int64            `json:"default"`
}

// DefaultDeliveryFees is the Ho Chi Minh City fee schedule
func DefaultDeliveryFees() DeliveryFeeTable {
	return DeliveryFeeTable{
		Districts: map[string]int64{
			"Quận 1":        50000,
			"Quận 2":        60000,
			"Quận 3":        70000,
			"Quận 4":        80000,
			"Quận 5":        90000,
			"Quận 6":        100000,
			"Quận 7":        110000,
			"Quận 8":        120000,
			"Quận 9":        130000,
			"Quận 10":       140000,
			"Quận 11":       150000,
			"Quận 12":       160000,
			"Quận Thủ Đức": 170000,
		},
		Default: 70000,
	}
}

// Fee returns the fee for district, or the default when the district is not listed.
// Names match regardless of case and of composed or decomposed diacritics.
func (t DeliveryFeeTable) Fee(district string) int64 {
	key := districtKey(district)
	if key == "" {
		return t.Default
	}
	for name, fee := range t.Districts {
		if districtKey(name) == key {
			return fee
		}
	}
	return t.Default
}

func districtKey(name string) string {
	return strings.ToLower(norm.NFC.String(strings.Join(strings.Fields(name), " ")))
}
