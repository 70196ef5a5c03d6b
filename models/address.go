package models

import "strings"

// Address is a shipping destination. It is embedded in users and snapshotted onto orders.
type Address struct {
	FullName string `json:"full_name" binding:"omitempty,max=100"`
	Street   string `json:"street" binding:"omitempty,max=200"`
	City     string `json:"city" binding:"omitempty,max=100"`
	District string `json:"district" binding:"omitempty,max=100"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// IsComplete reports whether every field needed to ship a parcel is filled in
func (a Address) IsComplete() bool {
	for _, v := range []string{a.FullName, a.Street, a.City, a.District, a.Phone} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
