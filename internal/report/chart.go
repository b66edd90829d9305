package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"os"
	"strings"

	"github.com/park285/Cheese-TimePressure/internal/domain"
	"github.com/park285/Cheese-TimePressure/internal/msgcat"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	chartWidth      = 760
	chartLabelWidth = 180
	chartTopMargin  = 56
	chartRowHeight  = 40
	chartBarHeight  = 11
	chartSideMargin = 20
	chartBottom     = 40
)

var (
	chartBackground   = "#1c1f2e"
	chartGamesFill    = "#b6b8be"
	chartPressureFill = "#e8644a"
	chartGridStroke   = "#3a3f55"
	chartTextPrimary  = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	chartTextMuted    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
)

// RenderChartPNG draws one row per player with a games bar and a
// games-under-pressure bar on a shared scale.
func RenderChartPNG(ctx context.Context, rep *domain.Report, cat *msgcat.Catalog) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("nil report")
	}
	if cat == nil {
		cat = msgcat.Default()
	}
	rows := Sort(rep)
	height := chartTopMargin + len(rows)*chartRowHeight + chartBottom

	svg := chartSVG(rows, height)
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse chart svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(chartWidth), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, chartWidth, height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, imagedraw.Src)
	scanner := rasterx.NewScannerGV(chartWidth, height, img, img.Bounds())
	raster := rasterx.NewDasher(chartWidth, height, scanner)
	icon.Draw(raster, 1.0)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data := map[string]any{"Event": rep.Event}
	if strings.TrimSpace(rep.Event) == "" {
		data["Event"] = "Tournament"
	}
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	drawText(drawer, chartSideMargin, 28, cat.RenderOr("chart.title", data, "games vs games under time pressure"), chartTextPrimary)
	legend := fmt.Sprintf("%s (grey)  %s (red)",
		cat.RenderOr("chart.legend_games", nil, "games"),
		cat.RenderOr("chart.legend_pressure", nil, "gtp"))
	drawText(drawer, chartSideMargin, 46, legend, chartTextMuted)

	for i, p := range rows {
		y := chartTopMargin + i*chartRowHeight
		name := truncateWithEllipsis(basicfont.Face7x13, p.Name, chartLabelWidth-chartSideMargin-8)
		drawText(drawer, chartSideMargin, y+chartBarHeight, name, chartTextPrimary)
		perf := formatPerformance(p.PressurePerformance)
		if perf == "" {
			perf = "n/a"
		}
		label := fmt.Sprintf("%d / %d  perf %s", p.Games, p.PressureGames, perf)
		drawText(drawer, chartSideMargin, y+2*chartBarHeight+4, label, chartTextMuted)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveChartPNG renders the chart and writes it to path.
func SaveChartPNG(ctx context.Context, path string, rep *domain.Report, cat *msgcat.Catalog) error {
	data, err := RenderChartPNG(ctx, rep, cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func chartSVG(rows []domain.PlayerRecord, height int) []byte {
	maxGames := 1
	for _, p := range rows {
		if p.Games > maxGames {
			maxGames = p.Games
		}
	}
	barSpan := float64(chartWidth - chartLabelWidth - chartSideMargin)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, chartWidth, height, chartWidth, height)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" rx="12" fill="%s"/>`, chartWidth, height, chartBackground)
	for i := range rows {
		y := chartTopMargin + i*chartRowHeight - 4
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`,
			chartSideMargin, y, chartWidth-chartSideMargin, y, chartGridStroke)
	}
	for i, p := range rows {
		y := chartTopMargin + i*chartRowHeight
		gw := barSpan * float64(p.Games) / float64(maxGames)
		pw := barSpan * float64(p.PressureGames) / float64(maxGames)
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`, chartLabelWidth, y, gw, chartBarHeight, chartGamesFill)
		if pw > 0 {
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`, chartLabelWidth, y+chartBarHeight+1, pw, chartBarHeight, chartPressureFill)
		}
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func drawText(drawer *font.Drawer, x, baseline int, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
