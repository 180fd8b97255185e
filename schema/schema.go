// Package schema defines the JSON documents produced and stored by esgrate.
package schema

import "time"

// Version is the esgrate release.
const Version = "1.0.0"

// Assessment is the output of the scoring pipeline.
type Assessment struct {
	E                 int            `json:"E"`
	S                 int            `json:"S"`
	G                 int            `json:"G"`
	Total             float64        `json:"total"`
	Level             string         `json:"level"`
	LevelName         string         `json:"levelName"`
	RateDiscount      float64        `json:"rateDiscount"`
	RateDiscountRange string         `json:"rateDiscountRange"`
	Products          []string       `json:"products"`
	SpecialBenefits   []string       `json:"specialBenefits,omitempty"`
	Warning           string         `json:"warning,omitempty"`
	Improvements      []string       `json:"improvements"`
	Details           map[string]int `json:"details"`
	RubricVersion     string         `json:"rubricVersion"`
}

// Scores is the score summary kept with each history record.
type Scores struct {
	Total float64 `json:"total"`
	E     int     `json:"E"`
	S     int     `json:"S"`
	G     int     `json:"G"`
}

// IsZero reports whether every score is zero.
func (s Scores) IsZero() bool {
	return s.Total == 0 && s.E == 0 && s.S == 0 && s.G == 0
}

// EnvironmentalData is the usage snapshot submitted with an assessment.
type EnvironmentalData struct {
	Scope1Emissions  float64 `json:"scope1Emissions"`
	Scope2Emissions  float64 `json:"scope2Emissions"`
	ElectricityUsage float64 `json:"electricityUsage"`
	WaterUsage       float64 `json:"waterUsage"`
}

// Record is one stored assessment in a company's history.
type Record struct {
	ID                string             `json:"id"`
	CompanyID         string             `json:"companyId"`
	CompanyName       string             `json:"companyName,omitempty"`
	Date              string             `json:"date"`
	Timestamp         time.Time          `json:"timestamp"`
	Scores            Scores             `json:"scores"`
	Rating            string             `json:"rating"`
	EnvironmentalData *EnvironmentalData `json:"environmentalData,omitempty"`
	Answers           map[string]string  `json:"answers"`
	RubricVersion     string             `json:"rubricVersion"`
	Fingerprint       string             `json:"fingerprint"`
}

// Achievement is a milestone unlocked by a company's history.
type Achievement struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Category     string `json:"category"`
	UnlockedDate string `json:"unlockedDate"`
	UnlockedBy   string `json:"unlockedByAssessment"`
}
