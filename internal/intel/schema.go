package intel

import "google.golang.org/genai"

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func strList(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// documentSchema mirrors model.Document. Property names must stay in sync with
// the json tags there.
func documentSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"executiveSummary": object(map[string]*genai.Schema{
			"meaning":       str("What the keyword means for the market right now"),
			"whatIsWorking": str("Ad strategies currently performing"),
		}, "meaning", "whatIsWorking"),
		"keywordInterpretation": object(map[string]*genai.Schema{
			"culturalMeaning":       str(""),
			"emotionalAssociations": strList(""),
			"scenarios":             strList("Usage scenarios"),
		}, "culturalMeaning", "emotionalAssociations", "scenarios"),
		"demographics": {
			Type: genai.TypeArray,
			Items: object(map[string]*genai.Schema{
				"regionType":      str("Metro or Rurban"),
				"locations":       str(""),
				"ageGroup":        str(""),
				"language":        str(""),
				"culturalTone":    str(""),
				"purchaseTrigger": str(""),
			}, "regionType", "locations", "ageGroup", "language", "culturalTone", "purchaseTrigger"),
		},
		"creativePatterns": object(map[string]*genai.Schema{
			"topHooks":     strList(""),
			"visualStyles": str(""),
			"copyTone":     str(""),
		}, "topHooks", "visualStyles", "copyTone"),
		"audienceComparison": object(map[string]*genai.Schema{
			"genZProfile": str(""),
			"massProfile": str(""),
			"dosAndDonts": {
				Type: genai.TypeArray,
				Items: object(map[string]*genai.Schema{
					"audience": str(""),
					"dos":      strList(""),
					"donts":    strList(""),
				}, "audience", "dos", "donts"),
			},
		}, "genZProfile", "massProfile", "dosAndDonts"),
		"brandStrategy": object(map[string]*genai.Schema{
			"legacyApproach": str(""),
			"fmcgTips":       str(""),
			"pitfalls":       str(""),
		}, "legacyApproach", "fmcgTips", "pitfalls"),
		"actionableAssets": object(map[string]*genai.Schema{
			"copyFrameworks":  strList("AIDA, PAS, JTBD or Hook-Story-Offer applications"),
			"reelHooks":       strList(""),
			"messagingAngles": strList(""),
		}, "copyFrameworks", "reelHooks", "messagingAngles"),
		"trendAlerts": object(map[string]*genai.Schema{
			"opportunities":      strList(""),
			"saturationWarnings": strList(""),
		}, "opportunities", "saturationWarnings"),
		"competitors": {
			Type: genai.TypeArray,
			Items: object(map[string]*genai.Schema{
				"brand":    str(""),
				"strength": str(""),
				"killZone": str("Segment where the brand is weakest"),
			}, "brand", "strength", "killZone"),
		},
		"executionPlaybook": object(map[string]*genai.Schema{
			"positioning": str("Category-defining statement"),
			"blitzPlan":   strList("30-day content plan"),
			"reelHooks":   strList("Scroll-stopping hooks"),
		}, "positioning", "blitzPlan", "reelHooks"),
		"metrics": object(map[string]*genai.Schema{
			"northStar": str(""),
			"redFlags":  strList(""),
		}, "northStar", "redFlags"),
	},
		"executiveSummary", "keywordInterpretation", "demographics", "creativePatterns",
		"audienceComparison", "brandStrategy", "actionableAssets", "trendAlerts",
	)
}
