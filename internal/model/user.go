package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Role string

const (
	RoleStrategist           Role = "Strategist"
	RoleBrandManager         Role = "Brand Manager"
	RoleCreativeLead         Role = "Creative Lead"
	RolePerformanceMarketing Role = "Performance Marketing"
)

// Roles lists the roles offered at registration, default first.
var Roles = []Role{RoleStrategist, RoleBrandManager, RoleCreativeLead, RolePerformanceMarketing}

// Valid reports whether r is one of the registration roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

const DefaultDepartment = "Creative Strategy"

// User is an employee record. Email is the unique key; Reports is newest first.
type User struct {
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	JoinedAt   time.Time `json:"joinedAt"`
	Reports    []Report  `json:"reports"`
}

// NormalizeEmail trims and lower-cases an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FirstName returns the first word of the full name.
func (u *User) FirstName() string {
	if f := strings.Fields(u.FullName); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Initial returns the upper-cased first letter of the full name, used as an avatar.
func (u *User) Initial() string {
	for _, r := range u.FullName {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// UnmarshalJSON accepts both the current layout and the legacy browser layout
// (joinedDate in epoch milliseconds, analysisHistory instead of reports).
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var raw struct {
		alias
		JoinedDate      *int64   `json:"joinedDate"`
		AnalysisHistory []Report `json:"analysisHistory"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User(raw.alias)
	if u.JoinedAt.IsZero() && raw.JoinedDate != nil {
		u.JoinedAt = time.UnixMilli(*raw.JoinedDate).UTC()
	}
	if len(u.Reports) == 0 && raw.AnalysisHistory != nil {
		u.Reports = raw.AnalysisHistory
	}
	return nil
}
