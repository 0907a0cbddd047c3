package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fogleman/gg"
)

const (
	chartWidth   = 800
	rowHeight    = 60
	chartPadding = 40
	barMaxWidth  = 520.0
	barHeight    = 28.0
)

// RenderScoreChart draws a horizontal bar chart of final scores and writes it
// as a PNG under dir. Returns the written path.
func RenderScoreChart(dir string, result MatchResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	players := make([]PlayerResult, len(result.Players))
	copy(players, result.Players)
	sort.Slice(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})

	height := chartPadding*2 + rowHeight*len(players) + 30
	dc := gg.NewContext(chartWidth, height)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	title := fmt.Sprintf("Final scores  (%s)", result.EndedAt.Format("2006-01-02 15:04:05"))
	dc.DrawStringAnchored(title, chartWidth/2, chartPadding/2, 0.5, 0.5)

	maxAbs := 1.0
	for _, p := range players {
		if a := abs(p.Score); a > maxAbs {
			maxAbs = a
		}
	}

	for i, p := range players {
		y := float64(chartPadding + 20 + i*rowHeight)

		label := p.Name
		if p.LastSurvivor {
			label += " ★"
		}
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(label, chartPadding, y+barHeight/2, 0, 0.5)

		barW := abs(p.Score) / maxAbs * barMaxWidth
		if p.Score >= 0 {
			dc.SetRGB(0.22, 0.55, 0.85)
		} else {
			dc.SetRGB(0.85, 0.33, 0.27)
		}
		dc.DrawRectangle(chartPadding+150, y, barW, barHeight)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		score := fmt.Sprintf("%.1f", p.Score)
		dc.DrawStringAnchored(score, chartPadding+150+barW+8, y+barHeight/2, 0, 0.5)
	}

	dc.SetRGB(0.4, 0.4, 0.4)
	footer := "survival/3 + 5 x hits - 5 x lives lost + 25 survivor bonus"
	dc.DrawStringAnchored(footer, chartWidth/2, float64(height-15), 0.5, 0.5)

	path := filepath.Join(dir, fmt.Sprintf("scores_%s.png", result.EndedAt.Format("20060102_150405")))
	if err := dc.SavePNG(path); err != nil {
		return "", err
	}
	return path, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
