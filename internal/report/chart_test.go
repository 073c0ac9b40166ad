package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/testutil"
)

func filteredFixture(t *testing.T) *balance.FilteredTrajectory {
	t.Helper()
	ft, err := balance.Preprocess(testutil.SteadyTrajectory(5, 0.02), config.EmptyTuningConfig())
	testutil.AssertNoError(t, err)
	return ft
}

func TestSwayChartHTML(t *testing.T) {
	var buf bytes.Buffer
	err := SwayChartHTML(&buf, "Sway path", filteredFixture(t))
	testutil.AssertNoError(t, err)

	out := buf.String()
	if !strings.Contains(out, "hip midpoint") {
		t.Error("chart output missing the sway series name")
	}
	if !strings.Contains(out, "Sway path") {
		t.Error("chart output missing the title")
	}
}

func TestSwayChartHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := SwayChartHTML(&buf, "empty", &balance.FilteredTrajectory{})
	testutil.AssertError(t, err)
}

func TestSwayPlotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.png")
	err := SwayPlotPNG(path, "Sway path", filteredFixture(t))
	testutil.AssertNoError(t, err)

	info, err := os.Stat(path)
	testutil.AssertNoError(t, err)
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSwayPlotPNGEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.png")
	err := SwayPlotPNG(path, "empty", &balance.FilteredTrajectory{})
	testutil.AssertError(t, err)
}
