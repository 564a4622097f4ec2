package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

const (
	SheetSummary     = "Summary"
	SheetCompetitors = "Competitors"
	SheetBlockers    = "Blockers"
	SheetPersonas    = "Personas"
)

// BuildWorkbook exports the report figures as an XLSX workbook with one
// sheet per table.
func BuildWorkbook(d simulation.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Report ID", d.ReportID},
		{"Date", d.Date},
		{"Idea", d.IdeaTitle},
		{"Value Proposition", d.ValueProp},
		{"Domain", d.Domain},
		{"Target User", d.TargetUser},
		{"Target Segment", d.TargetUserSegment},
		{"Income Level", d.IncomeLevel},
		{"B2B", d.IsB2B},
		{"TAM", d.TAM},
		{"Projected Users", d.Users},
		{"Revenue per User (INR)", d.RPU},
		{"Spend Cap (INR/month)", d.SpendCapINR},
		{"Capture Potential (%)", d.CapturePotential},
		{"Attack Vector", d.AttackVector},
		{"Primary Blocker", d.PrimaryBlocker},
		{"Blocker Severity", d.BlockerSeverity},
		{"Blocker Impact (%)", d.BlockerImpactPct},
		{"Impact 95% Low", d.BlockerCI95[0]},
		{"Impact 95% High", d.BlockerCI95[1]},
		{"Friction Score", d.FrictionScore},
		{"Urgent Action", d.UrgentAction.Description},
		{"Urgent Action Cost (INR)", d.UrgentAction.CostINR},
		{"Next Step", d.NextStep.Description},
		{"Next Step Cost (INR)", d.NextStep.CostINR},
		{"North Star", d.NorthStar.Metric},
		{"Knowledge Degraded", d.KnowledgeDegraded},
	}
	if err := writeRows(f, SheetSummary, []string{"Field", "Value"}, summary); err != nil {
		return nil, err
	}

	competitors := make([][]any, 0, len(d.Competitors))
	for _, c := range d.Competitors {
		competitors = append(competitors, []any{
			c.Name, c.WeaknessScore, c.Exploitability, weaknessLabel(c.PrimaryWeakness),
			c.Details.Pricing.Score, c.Details.Features.Score, c.Details.UX.Score, c.Details.Coverage.Score,
		})
	}
	if err := writeRows(f, SheetCompetitors,
		[]string{"Competitor", "Weakness Score", "Exploitability", "Primary Weakness", "Pricing", "Features", "UX", "Coverage"},
		competitors); err != nil {
		return nil, err
	}

	blockers := make([][]any, 0, len(d.BlockerTally))
	for _, b := range d.BlockerTally {
		blockers = append(blockers, []any{string(b.Type), b.Count})
	}
	if err := writeRows(f, SheetBlockers, []string{"Blocker", "Trials Hit"}, blockers); err != nil {
		return nil, err
	}

	personas := make([][]any, 0, len(d.Personas))
	for _, p := range d.Personas {
		personas = append(personas, []any{p.ID, p.Name, p.Type, p.IncomeLevel, p.DigitalLiteracy})
	}
	if err := writeRows(f, SheetPersonas, []string{"ID", "Name", "Type", "Income Level", "Digital Literacy"}, personas); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
