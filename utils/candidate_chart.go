package utils

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/elC0mpa/spot-allocator/model"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	ColorRank1 = "#1a9850"
	ColorRank2 = "#66c2a5"
	ColorRank3 = "#abdda4"
	ColorRank4 = "#fee08b"
	ColorRank5 = "#f46d43"
	ColorRank6 = "#d73027"
)

var defaultStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060"))

var rankColors = []string{ColorRank1, ColorRank2, ColorRank3, ColorRank4, ColorRank5, ColorRank6}

// DrawCandidateChart plots the best-ranked candidates by max observed
// price, cheapest first
func DrawCandidateChart(candidates []model.Candidate) {
	if len(candidates) == 0 {
		return
	}

	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 📊 CANDIDATE MAX PRICES ($/h)"))
	fmt.Println(text.FgHiBlue.Sprint(" ------------------------------------------------"))

	bc := barchart.New(130, 20)

	for idx, candidate := range candidates {
		color := rankColors[len(rankColors)-1]
		if idx < len(rankColors) {
			color = rankColors[idx]
		}

		data := barchart.BarData{
			Label: fmt.Sprintf("%s %s: %.4f", candidate.ZoneName, candidate.InstanceType, candidate.MaxPrice),
			Values: []barchart.BarValue{
				{
					Value: candidate.MaxPrice,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(color)),
				},
			},
		}

		bc.Push(data)
	}

	fmt.Println()

	bc.Draw()
	s := lipgloss.JoinHorizontal(lipgloss.Top,
		defaultStyle.Render(bc.View()),
	)

	fmt.Println(s)
}
