package model

// Document is the body of a report as produced by the model. The required
// sections mirror the response schema handed to Gemini; the trailing pointer
// and slice sections are optional and only present in richer generations.
type Document struct {
	ExecutiveSummary      ExecutiveSummary      `json:"executiveSummary"`
	KeywordInterpretation KeywordInterpretation `json:"keywordInterpretation"`
	Demographics          []DemographicRow      `json:"demographics"`
	CreativePatterns      CreativePatterns      `json:"creativePatterns"`
	AudienceComparison    AudienceComparison    `json:"audienceComparison"`
	BrandStrategy         BrandStrategy         `json:"brandStrategy"`
	ActionableAssets      ActionableAssets      `json:"actionableAssets"`
	TrendAlerts           TrendAlerts           `json:"trendAlerts"`

	Competitors []Competitor       `json:"competitors,omitempty"`
	Playbook    *ExecutionPlaybook `json:"executionPlaybook,omitempty"`
	Metrics     *Metrics           `json:"metrics,omitempty"`
	Sources     []Source           `json:"sources,omitempty"`
}

type ExecutiveSummary struct {
	Meaning       string `json:"meaning"`
	WhatIsWorking string `json:"whatIsWorking"`
}

type KeywordInterpretation struct {
	CulturalMeaning       string   `json:"culturalMeaning"`
	EmotionalAssociations []string `json:"emotionalAssociations"`
	Scenarios             []string `json:"scenarios"`
}

type DemographicRow struct {
	RegionType      string `json:"regionType"`
	Locations       string `json:"locations"`
	AgeGroup        string `json:"ageGroup"`
	Language        string `json:"language"`
	CulturalTone    string `json:"culturalTone"`
	PurchaseTrigger string `json:"purchaseTrigger"`
}

type CreativePatterns struct {
	TopHooks     []string `json:"topHooks"`
	VisualStyles string   `json:"visualStyles"`
	CopyTone     string   `json:"copyTone"`
}

type AudienceComparison struct {
	GenZProfile string             `json:"genZProfile"`
	MassProfile string             `json:"massProfile"`
	DosAndDonts []AudienceGuidance `json:"dosAndDonts"`
}

type AudienceGuidance struct {
	Audience string   `json:"audience"`
	Dos      []string `json:"dos"`
	Donts    []string `json:"donts"`
}

type BrandStrategy struct {
	LegacyApproach string `json:"legacyApproach"`
	FMCGTips       string `json:"fmcgTips"`
	Pitfalls       string `json:"pitfalls"`
}

type ActionableAssets struct {
	CopyFrameworks  []string `json:"copyFrameworks"`
	ReelHooks       []string `json:"reelHooks"`
	MessagingAngles []string `json:"messagingAngles"`
}

type TrendAlerts struct {
	Opportunities      []string `json:"opportunities"`
	SaturationWarnings []string `json:"saturationWarnings"`
}

// Competitor is an active brand and the segment where it is weakest.
type Competitor struct {
	Brand    string `json:"brand"`
	Strength string `json:"strength"`
	KillZone string `json:"killZone"`
}

type ExecutionPlaybook struct {
	Positioning string   `json:"positioning"`
	BlitzPlan   []string `json:"blitzPlan"`
	ReelHooks   []string `json:"reelHooks"`
}

type Metrics struct {
	NorthStar string   `json:"northStar"`
	RedFlags  []string `json:"redFlags"`
}

// Source is a web page the model cited while grounding the report.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
