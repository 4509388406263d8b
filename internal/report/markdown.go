// Package report renders stored reports for sharing outside the dashboard.
package report

import (
	"io"
	"strings"

	"github.com/icemedialab/varta/internal/model"
	"github.com/nao1215/markdown"
)

// WriteMarkdown renders r as a Markdown document.
func WriteMarkdown(w io.Writer, r *model.Report) error {
	md := markdown.NewMarkdown(w)
	doc := &r.Result

	md.H1("VARTA Intelligence Report: " + r.Input.Keyword)
	md.PlainText("")
	generated := "unknown"
	if !r.CreatedAt.IsZero() {
		generated = r.CreatedAt.Format("2006-01-02 15:04 MST")
	}
	rows := [][]string{
		{"Report ID", "`" + r.ID + "`"},
		{"Generated", generated},
		{"Keyword", cell(r.Input.Keyword)},
		{"Region", cell(r.Input.Region)},
		{"Platform", cell(r.Input.Platform)},
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")
	if r.Input.RawAdText != "" {
		md.Details("Ad text supplied", r.Input.RawAdText)
		md.PlainText("")
	}

	md.H2("Executive Summary")
	md.PlainText(doc.ExecutiveSummary.Meaning)
	md.PlainText("")
	md.Note(doc.ExecutiveSummary.WhatIsWorking)
	md.PlainText("")

	md.H2("Keyword Interpretation")
	md.PlainText(doc.KeywordInterpretation.CulturalMeaning)
	md.PlainText("")
	bullets(md, "Emotional associations", doc.KeywordInterpretation.EmotionalAssociations)
	bullets(md, "Scenarios", doc.KeywordInterpretation.Scenarios)

	md.H2("Demographics")
	if len(doc.Demographics) > 0 {
		demo := make([][]string, 0, len(doc.Demographics))
		for _, d := range doc.Demographics {
			demo = append(demo, []string{
				cell(d.RegionType), cell(d.Locations), cell(d.AgeGroup),
				cell(d.Language), cell(d.CulturalTone), cell(d.PurchaseTrigger),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Region", "Locations", "Age", "Language", "Tone", "Trigger"},
			Rows:   demo,
		})
	}
	md.PlainText("")

	md.H2("Creative Patterns")
	bullets(md, "Top hooks", doc.CreativePatterns.TopHooks)
	md.PlainTextf("**Visual styles:** %s", doc.CreativePatterns.VisualStyles)
	md.PlainText("")
	md.PlainTextf("**Copy tone:** %s", doc.CreativePatterns.CopyTone)
	md.PlainText("")

	md.H2("Audience Comparison")
	md.PlainTextf("**Gen Z:** %s", doc.AudienceComparison.GenZProfile)
	md.PlainText("")
	md.PlainTextf("**Mass market:** %s", doc.AudienceComparison.MassProfile)
	md.PlainText("")
	for _, g := range doc.AudienceComparison.DosAndDonts {
		md.H3(g.Audience)
		bullets(md, "Do", g.Dos)
		bullets(md, "Don't", g.Donts)
	}

	md.H2("Brand Strategy")
	md.Table(markdown.TableSet{
		Header: []string{"Aspect", "Guidance"},
		Rows: [][]string{
			{"Legacy approach", cell(doc.BrandStrategy.LegacyApproach)},
			{"FMCG tips", cell(doc.BrandStrategy.FMCGTips)},
			{"Pitfalls", cell(doc.BrandStrategy.Pitfalls)},
		},
	})
	md.PlainText("")

	md.H2("Actionable Assets")
	bullets(md, "Copy frameworks", doc.ActionableAssets.CopyFrameworks)
	bullets(md, "Reel hooks", doc.ActionableAssets.ReelHooks)
	bullets(md, "Messaging angles", doc.ActionableAssets.MessagingAngles)

	md.H2("Trend Alerts")
	bullets(md, "Opportunities", doc.TrendAlerts.Opportunities)
	if len(doc.TrendAlerts.SaturationWarnings) > 0 {
		md.Warning("Saturated: " + strings.Join(doc.TrendAlerts.SaturationWarnings, "; "))
		md.PlainText("")
	}

	if len(doc.Competitors) > 0 {
		md.H2("Competitors")
		comp := make([][]string, 0, len(doc.Competitors))
		for _, c := range doc.Competitors {
			comp = append(comp, []string{cell(c.Brand), cell(c.Strength), cell(c.KillZone)})
		}
		md.Table(markdown.TableSet{Header: []string{"Brand", "Strength", "Kill zone"}, Rows: comp})
		md.PlainText("")
	}

	if p := doc.Playbook; p != nil {
		md.H2("Execution Playbook")
		md.PlainTextf("**Positioning:** %s", p.Positioning)
		md.PlainText("")
		bullets(md, "30-day blitz", p.BlitzPlan)
		bullets(md, "Reel hooks", p.ReelHooks)
	}

	if m := doc.Metrics; m != nil {
		md.H2("Metrics")
		md.PlainTextf("**North star:** %s", m.NorthStar)
		md.PlainText("")
		bullets(md, "Red flags", m.RedFlags)
	}

	if len(doc.Sources) > 0 {
		md.H2("Sources")
		links := make([]string, 0, len(doc.Sources))
		for _, s := range doc.Sources {
			links = append(links, markdown.Link(s.Title, s.URL))
		}
		md.BulletList(links...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("*Generated by VARTA Intelligence*")
	return md.Build()
}

func bullets(md *markdown.Markdown, title string, items []string) {
	if len(items) == 0 {
		return
	}
	md.PlainTextf("**%s**", title)
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// cell keeps table rows on one line and escapes column separators.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
