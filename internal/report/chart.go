package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

const (
	chartWidth    = 720
	chartRowH     = 44
	chartPadTop   = 48
	chartLabelW   = 180
	chartMaxScore = 10.0
)

var (
	chartBarColor   = color.RGBA{R: 0x0f, G: 0x76, B: 0x6e, A: 0xff}
	chartTrackColor = color.RGBA{R: 0xe7, G: 0xe5, B: 0xe4, A: 0xff}
	chartInkColor   = color.RGBA{R: 0x1c, G: 0x19, B: 0x17, A: 0xff}
)

// RenderCompetitorChart draws one horizontal bar per competitor scaled to
// its exploitability out of 10, encoded as PNG. It returns nil for an empty
// list.
func RenderCompetitorChart(competitors []simulation.CompetitorAnalysis) ([]byte, error) {
	if len(competitors) == 0 {
		return nil, nil
	}
	height := chartPadTop + chartRowH*len(competitors) + 16
	dc := gg.NewContext(chartWidth, height)

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(chartInkColor)
	dc.DrawString("Exploitability (0-10)", 16, 24)

	trackW := float64(chartWidth - chartLabelW - 64)
	for i, c := range competitors {
		y := float64(chartPadTop + i*chartRowH)
		score := min(max(c.Exploitability, 0), chartMaxScore)

		dc.SetColor(chartInkColor)
		dc.DrawStringAnchored(truncateLabel(c.Name, 24), 16, y+chartRowH/2-6, 0, 0.5)

		dc.SetColor(chartTrackColor)
		dc.DrawRectangle(chartLabelW, y, trackW, chartRowH-16)
		dc.Fill()

		dc.SetColor(chartBarColor)
		dc.DrawRectangle(chartLabelW, y, trackW*score/chartMaxScore, chartRowH-16)
		dc.Fill()

		dc.SetColor(chartInkColor)
		dc.DrawStringAnchored(fmtScore(c.Exploitability), chartLabelW+trackW+8, y+chartRowH/2-6, 0, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode chart png: %w", err)
	}
	return buf.Bytes(), nil
}

func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
