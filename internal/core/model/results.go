package model

import "time"

// Typed result records, one per query. Field order mirrors the columns the
// console report prints.

type RegionPairGroup struct {
	GroupName    string `json:"group_name"`
	TotalAttacks int    `json:"total_attacks"`
}

type CrossRegionGroup struct {
	GroupName    string   `json:"group_name"`
	Regions      []string `json:"regions"`
	TotalAttacks int      `json:"total_attacks"`
}

type CityCluster struct {
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Groups      []string `json:"groups"`
	AttackCount int      `json:"attack_count"`
}

type CityGroupWindow struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Groups     []string `json:"groups"`
	GroupCount int      `json:"group_count"`
}

type SequentialAttack struct {
	FirstGroup   string `json:"first_group"`
	SecondGroup  string `json:"second_group"`
	TargetType   string `json:"target_type"`
	FirstCity    string `json:"first_city"`
	SecondCity   string `json:"second_city"`
	HoursBetween int    `json:"hours_between"`
}

type BurstDay struct {
	Date        time.Time `json:"date"`
	AttackCount int       `json:"attack_count"`
	Locations   []string  `json:"locations"`
}

type YearWeapon struct {
	Year   int    `json:"year"`
	Weapon string `json:"weapon"`
}

type WeaponPattern struct {
	GroupName     string       `json:"group_name"`
	Patterns      []YearWeapon `json:"weapon_patterns"`
	UniqueWeapons int          `json:"unique_weapons"`
}

type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type RegionalPattern struct {
	Region  string       `json:"region"`
	Monthly []MonthCount `json:"monthly_patterns"`
}

type GroupActivity struct {
	EventID    int64     `json:"event_id"`
	Date       time.Time `json:"date"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	AttackType string    `json:"attack_type"`
	TargetType string    `json:"target_type"`
	Casualties int       `json:"casualties"`
	Wounded    int       `json:"wounded"`
}

type SharedTacticGroup struct {
	GroupName     string   `json:"group_name"`
	SharedTactics []string `json:"shared_tactics"`
	AttackCount   int      `json:"attack_count"`
}

type ConnectedGroup struct {
	GroupName     string   `json:"group_name"`
	AttackCount   int      `json:"attack_count"`
	SharedRegions []string `json:"shared_regions"`
}

// AttackRef is the per-incident detail carried inside pair and path results.
type AttackRef struct {
	EventID  int64     `json:"event_id"`
	Group    string    `json:"group,omitempty"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Weapon   string    `json:"weapon,omitempty"`
	Target   string    `json:"target,omitempty"`
}

type CoordinatedPair struct {
	Score        float64   `json:"similarity_score"`
	DaysBetween  int       `json:"days_between"`
	WeaponMatch  bool      `json:"weapon_match"`
	TargetMatch  bool      `json:"target_match"`
	RegionMatch  bool      `json:"region_match"`
	CountryMatch bool      `json:"country_match"`
	First        AttackRef `json:"attack1"`
	Second       AttackRef `json:"attack2"`
}

type CoordinationPair struct {
	Group1           string            `json:"group1"`
	Group2           string            `json:"group2"`
	SimilarityScore  float64           `json:"similarity_score"` // rounded to one decimal
	AvgDaysBetween   float64           `json:"avg_days_between"`
	MatchingCriteria []string          `json:"matching_criteria"`
	SimilarAttacks   []CoordinatedPair `json:"similar_attacks"`
}

type PathNode struct {
	EventID    int64     `json:"event_id"`
	Group      string    `json:"group"`
	Date       time.Time `json:"date"`
	City       string    `json:"city"`
	AttackType string    `json:"attack_type,omitempty"`
	Weapon     string    `json:"weapon,omitempty"`
	Target     string    `json:"target,omitempty"`
}

type IncidentPath struct {
	Length int        `json:"path_length"` // edges traversed
	Nodes  []PathNode `json:"attacks"`
}

type CommunityMember struct {
	EventID int64  `json:"event_id"`
	Group   string `json:"group"`
}

type Campaign struct {
	Members []CommunityMember `json:"members"`
}
