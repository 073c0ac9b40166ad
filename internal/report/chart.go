// Package report renders visual summaries of a completed balance
// analysis: an interactive HTML sway-path chart and a static PNG plot
// of the hip trajectory.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stance-data/balance.report/internal/balance"
)

// SwayChartHTML renders the filtered hip sway path as an HTML scatter
// chart. Points are colored by time so drift direction is visible.
func SwayChartHTML(w io.Writer, title string, ft *balance.FilteredTrajectory) error {
	if len(ft.X) == 0 {
		return fmt.Errorf("no trajectory points to chart")
	}

	data := make([]opts.ScatterData, 0, len(ft.X))
	for i := range ft.X {
		data = append(data, opts.ScatterData{Value: []interface{}{ft.X[i], ft.Y[i], ft.Timestamps[i]}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d samples, %.1f fps", len(ft.X), ft.SampleRate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (frame fraction)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (frame fraction)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(ft.Timestamps[0]),
			Max:        float32(ft.Timestamps[len(ft.Timestamps)-1]),
			InRange:    &opts.VisualMapInRange{Color: []string{"#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("hip midpoint", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render sway chart: %w", err)
	}
	return nil
}
