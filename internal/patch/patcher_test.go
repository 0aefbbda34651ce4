package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pbi-visuals/templates/internal/apperr"
	"github.com/pbi-visuals/templates/internal/config"
	"github.com/pbi-visuals/templates/internal/extract"
	"github.com/pbi-visuals/templates/internal/models"
	"github.com/pbi-visuals/templates/internal/testutil"
)

func reportLayout(t *testing.T) []byte {
	kpi := testutil.Config(t, map[string]any{
		"visualType": "card",
		"title":      map[string]any{"text": "Revenue KPI"},
		"x":          10, "y": 20, "width": 300, "height": 150,
		"filters": []any{map[string]any{"name": "Region", "type": "Categorical"}},
		"objects": map[string]any{"labels": []any{map[string]any{"color": "red"}}},
	})
	slicer := testutil.Config(t, map[string]any{
		"visualType": "slicer",
		"title":      map[string]any{"text": "Region"},
		"x":          400, "y": 20,
	})
	return testutil.Layout(t,
		testutil.Section("ReportSection1", "Overview",
			testutil.Container(kpi, map[string]any{"x": 10, "y": 20, "tabOrder": 1000}),
			testutil.Container(slicer, map[string]any{"x": 400, "y": 20}),
			testutil.Container(`{\"visualType\":\"card\",\"title\":{\"text\":\"Margin KPI\"},\"x\":700}`, nil),
			testutil.Container(`{"visualType": "card"`, nil),
			map[string]any{"x": 0},
		),
	)
}

func cardTemplate() map[string]any {
	return map[string]any{
		"visualType": "card",
		"title":      map[string]any{"text": "Standard KPI Card"},
		"width":      999,
		"objects":    map[string]any{"labels": []any{map[string]any{"color": "#118DFF", "fontSize": 27}}},
	}
}

func setupReport(t *testing.T) (reportDir, templatePath string) {
	dir := t.TempDir()
	reportDir = testutil.WriteReportFolder(t, dir, "Dept_A_Report", reportLayout(t))
	templatePath = testutil.WriteJSONFile(t, dir, "Standard_KPI_Card.json", cardTemplate())
	return reportDir, templatePath
}

func newTestPatcher() *Patcher {
	return NewPatcher(config.DefaultConfig(), zap.NewNop())
}

func TestPatcher_Patch(t *testing.T) {
	reportDir, templatePath := setupReport(t)

	result, err := newTestPatcher().Patch(reportDir, templatePath, "KPI", Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Fixed())
	assert.True(t, result.Written)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "Revenue KPI", result.Visuals[0].Title)
	assert.Equal(t, "Margin KPI", result.Visuals[1].Title)

	layout := testutil.ReadJSON(t, filepath.Join(reportDir, "report.json"))
	containers := testutil.Containers(t, layout, 0)
	require.Len(t, containers, 5)

	got := testutil.DecodeConfig(t, containers[0])
	want := map[string]any{
		"visualType": "card",
		"title":      map[string]any{"text": "Standard KPI Card"},
		"x":          float64(10), "y": float64(20), "width": float64(300), "height": float64(150),
		"filters": []any{map[string]any{"name": "Region", "type": "Categorical"}},
		"objects": map[string]any{"labels": []any{map[string]any{"color": "#118DFF", "fontSize": float64(27)}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patched config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, float64(1000), containers[0]["tabOrder"], "container members survive the rewrite")

	// The double-encoded card matched through the fallback decode.
	margin := testutil.DecodeConfig(t, containers[2])
	assert.Equal(t, "Standard KPI Card", margin["title"].(map[string]any)["text"])
	assert.Equal(t, float64(700), margin["x"])
	assert.Equal(t, float64(999), margin["width"], "template width is kept when the original has none")

	// Unmatched and unparsable containers keep their config strings.
	orig := testutil.Containers(t, testutil.ReadJSONBytes(t, reportLayout(t)), 0)
	assert.Equal(t, orig[1]["config"], containers[1]["config"])
	assert.Equal(t, orig[3]["config"], containers[3]["config"])
}

func TestPatcher_NoMatchLeavesFileUntouched(t *testing.T) {
	reportDir, templatePath := setupReport(t)
	reportPath := filepath.Join(reportDir, "report.json")
	before, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	statBefore, err := os.Stat(reportPath)
	require.NoError(t, err)

	result, err := newTestPatcher().Patch(reportDir, templatePath, "does not exist anywhere", Options{})
	require.NoError(t, err)
	assert.True(t, result.NoMatch())
	assert.Equal(t, 0, result.Fixed())
	assert.False(t, result.Written)

	after, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	statAfter, err := os.Stat(reportPath)
	require.NoError(t, err)
	assert.Equal(t, statBefore.ModTime(), statAfter.ModTime())
}

func TestPatcher_DryRun(t *testing.T) {
	reportDir, templatePath := setupReport(t)
	reportPath := filepath.Join(reportDir, "report.json")
	before, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	result, err := newTestPatcher().Patch(reportDir, templatePath, "slicer", Options{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.Fixed())
	assert.True(t, result.DryRun)
	assert.False(t, result.Written)
	assert.NotEmpty(t, result.Visuals[0].Diff)

	after, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPatcher_ReapplyIsStable(t *testing.T) {
	reportDir, templatePath := setupReport(t)
	p := newTestPatcher()
	reportPath := filepath.Join(reportDir, "report.json")

	_, err := p.Patch(reportDir, templatePath, "Revenue", Options{})
	require.NoError(t, err)
	first := testutil.DecodeConfig(t, testutil.Containers(t, testutil.ReadJSON(t, reportPath), 0)[0])

	_, err = p.Patch(reportDir, templatePath, "Standard KPI", Options{})
	require.NoError(t, err)
	second := testutil.DecodeConfig(t, testutil.Containers(t, testutil.ReadJSON(t, reportPath), 0)[0])

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second application changed the config (-first +second):\n%s", diff)
	}
}

func TestPatcher_ChainedTemplatesCompose(t *testing.T) {
	reportDir, templatePath := setupReport(t)
	p := newTestPatcher()
	reportPath := filepath.Join(reportDir, "report.json")

	// The slicer has no z; the first template introduces one.
	first := testutil.WriteJSONFile(t, filepath.Dir(templatePath), "first.json", map[string]any{
		"visualType": "slicer", "z": 5,
	})
	second := testutil.WriteJSONFile(t, filepath.Dir(templatePath), "second.json", map[string]any{
		"visualType": "slicer", "z": 7, "title": map[string]any{"text": "Region"},
	})

	_, err := p.Patch(reportDir, first, "slicer", Options{})
	require.NoError(t, err)
	_, err = p.Patch(reportDir, second, "slicer", Options{})
	require.NoError(t, err)

	got := testutil.DecodeConfig(t, testutil.Containers(t, testutil.ReadJSON(t, reportPath), 0)[1])
	assert.Equal(t, float64(5), got["z"], "z is re-read from the patched state, not the template")
	assert.Equal(t, float64(400), got["x"])
	assert.Equal(t, "Region", got["title"].(map[string]any)["text"])
}

func TestPatcher_ExtractedTemplateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	layout := reportLayout(t)
	archive := testutil.WriteReportArchive(t, dir, "Dept_A.pbix", layout)
	reportDir := testutil.WriteReportFolder(t, dir, "Dept_A", layout)

	extracted, err := extract.NewExtractor(config.DefaultConfig(), nil).Extract(archive)
	require.NoError(t, err)
	require.Equal(t, 3, extracted.Count())

	reportPath := filepath.Join(reportDir, "report.json")
	original := testutil.DecodeConfig(t, testutil.Containers(t, testutil.ReadJSON(t, reportPath), 0)[1])

	// The slicer template, matched by its exact type.
	slicer := extracted.Templates[1]
	require.Equal(t, "slicer", slicer.VisualType)

	result, err := newTestPatcher().Patch(reportDir, slicer.Path, "slicer", Options{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Fixed())

	patched := testutil.DecodeConfig(t, testutil.Containers(t, testutil.ReadJSON(t, reportPath), 0)[1])
	if diff := cmp.Diff(original, patched); diff != "" {
		t.Errorf("round trip changed the config (-original +patched):\n%s", diff)
	}
}

func TestPatcher_InputErrors(t *testing.T) {
	dir := t.TempDir()
	reportDir := testutil.WriteReportFolder(t, dir, "Good", reportLayout(t))
	brokenReport := testutil.WriteReportFolder(t, dir, "Broken", []byte(`{"sections": [`))
	templatePath := testutil.WriteJSONFile(t, dir, "t.json", cardTemplate())
	badTemplate := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badTemplate, []byte(`{"visualType": `), 0644))

	tests := []struct {
		name      string
		reportDir string
		template  string
		wantKind  apperr.Kind
		wantCode  string
	}{
		{"missing report", filepath.Join(dir, "Nope"), templatePath, apperr.KindNotFound, apperr.CodeReportNotFound},
		{"missing report wins over missing template", filepath.Join(dir, "Nope"), filepath.Join(dir, "none.json"), apperr.KindNotFound, apperr.CodeReportNotFound},
		{"unparsable report", brokenReport, templatePath, apperr.KindParse, apperr.CodeReportUnparsable},
		{"missing template", reportDir, filepath.Join(dir, "none.json"), apperr.KindNotFound, apperr.CodeTemplateNotFound},
		{"unparsable template", reportDir, badTemplate, apperr.KindParse, apperr.CodeTemplateUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestPatcher().Patch(tt.reportDir, tt.template, "card", Options{})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}
}

func TestPatcher_NullEntries(t *testing.T) {
	kpi := testutil.Config(t, map[string]any{"visualType": "card", "title": map[string]any{"text": "Revenue KPI"}, "x": 10})

	tests := []struct {
		name    string
		layout  func(t *testing.T) []byte
		wantFix int
	}{
		{"null section", func(t *testing.T) []byte {
			return testutil.Layout(t, nil)
		}, 0},
		{"null container", func(t *testing.T) []byte {
			return testutil.Layout(t, testutil.Section("p1", "Page", nil, testutil.Container(kpi, nil)))
		}, 1},
		{"null section and null container", func(t *testing.T) []byte {
			return testutil.Layout(t, nil, testutil.Section("p1", "Page", nil, testutil.Container(kpi, nil)))
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			reportDir := testutil.WriteReportFolder(t, dir, "Report", tt.layout(t))
			templatePath := testutil.WriteJSONFile(t, dir, "t.json", cardTemplate())

			var result *models.PatchResult
			var err error
			require.NotPanics(t, func() {
				result, err = newTestPatcher().Patch(reportDir, templatePath, "kpi", Options{})
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantFix, result.Fixed())
			assert.Equal(t, 0, result.Skipped)
		})
	}
}

func TestPatcher_NullEntriesSurviveRewrite(t *testing.T) {
	dir := t.TempDir()
	kpi := testutil.Config(t, map[string]any{"visualType": "card", "title": map[string]any{"text": "Revenue KPI"}})
	reportDir := testutil.WriteReportFolder(t, dir, "Report",
		testutil.Layout(t, nil, testutil.Section("p1", "Page", nil, testutil.Container(kpi, nil))))
	templatePath := testutil.WriteJSONFile(t, dir, "t.json", cardTemplate())

	result, err := newTestPatcher().Patch(reportDir, templatePath, "kpi", Options{})
	require.NoError(t, err)
	require.True(t, result.Written)

	layout := testutil.ReadJSON(t, filepath.Join(reportDir, "report.json"))
	sections := layout["sections"].([]any)
	require.Len(t, sections, 2)
	assert.Nil(t, sections[0])

	containers := sections[1].(map[string]any)["visualContainers"].([]any)
	require.Len(t, containers, 2)
	assert.Nil(t, containers[0])
	patched := testutil.DecodeConfig(t, containers[1].(map[string]any))
	assert.Equal(t, "Standard KPI Card", patched["title"].(map[string]any)["text"])
}
