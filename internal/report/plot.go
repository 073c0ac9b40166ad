package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stance-data/balance.report/internal/balance"
)

// SwayPlotPNG saves the filtered hip sway path as a PNG line plot.
// Y is inverted so the image matches camera orientation (normalized
// pose coordinates grow downward).
func SwayPlotPNG(path, title string, ft *balance.FilteredTrajectory) error {
	if len(ft.X) == 0 {
		return fmt.Errorf("no trajectory points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (frame fraction)"
	p.Y.Label.Text = "y (frame fraction)"

	pts := make(plotter.XYs, len(ft.X))
	for i := range ft.X {
		pts[i].X = ft.X[i]
		pts[i].Y = 1 - ft.Y[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build sway line: %w", err)
	}
	p.Add(line)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save sway plot: %w", err)
	}
	return nil
}
