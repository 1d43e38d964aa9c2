package model

// UnknownGroup is the sentinel the source corpus uses for unattributed
// incidents. It must be treated the same as a missing group name.
const UnknownGroup = "Unknown"

// Incident is one recorded security event. Records are immutable once
// loaded; Month and Day may be zero or negative, meaning "unknown within
// the year".
type Incident struct {
	EventID    int64  `json:"event_id"`
	GroupName  string `json:"group_name,omitempty"`
	Year       int    `json:"year"`
	Month      int    `json:"month,omitempty"`
	Day        int    `json:"day,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
	AttackType string `json:"attack_type,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	WeaponType string `json:"weapon_type,omitempty"`
	Casualties int    `json:"casualties"`
	Wounded    int    `json:"wounded"`
}

// GroupKnown reports whether the incident is attributed to a named group.
func (i Incident) GroupKnown() bool {
	return i.GroupName != "" && i.GroupName != UnknownGroup
}
