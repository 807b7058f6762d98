package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func lineCoverage(component string) schema.MeasurementKey {
	return schema.MeasurementKey{Component: component, Metric: schema.LineCoverageMetric}
}

func javaFile(path string, toCover, uncovered int) schema.FileInput {
	return schema.FileInput{
		Path:      path,
		Language:  "java",
		Lines:     toCover,
		Component: "org:proj:" + path,
		Counters:  &schema.CoverageCounters{LinesToCover: toCover, UncoveredLines: uncovered},
	}
}

func TestEvaluatorTwoFileScenario(t *testing.T) {
	client := &contract.MockMeasurementClient{}
	client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj:a.java")).Return(50.0, true).Once()
	client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj:b.java")).Return(50.0, true).Once()
	client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj")).Return(100.0, true).Once()

	files := []schema.FileInput{javaFile("a.java", 100, 60), javaFile("b.java", 100, 70)}
	ev := NewEvaluator(client, DefaultRuleSet(), nil)
	ctx := context.Background()

	first := ev.EvaluateFile(ctx, files[0])
	require.NotNil(t, first)
	assert.Equal(t, "Line coverage of file a.java lowered from 50.0% to 40.0%.", first.Message)
	assert.Equal(t, "coverageEvolution-java:decreasingLineCoverage", first.Rule.String())
	assert.Equal(t, schema.FileFinding, first.Kind)

	second := ev.EvaluateFile(ctx, files[1])
	require.NotNil(t, second)
	assert.Equal(t, "Line coverage of file b.java lowered from 50.0% to 30.0%.", second.Message)

	project := ev.EvaluateProject(ctx, "org:proj", files)
	require.NotNil(t, project)
	assert.Equal(t, "Line coverage of the project lowered from 100.0% to 35.0%.", project.Message)
	assert.Equal(t, "coverageEvolution-java:decreasingOverallLineCoverage", project.Rule.String())
	assert.Equal(t, schema.ProjectFinding, project.Kind)
	assert.InDelta(t, 35.0, project.Current, 1e-9)

	assert.Equal(t, 3, ev.Calls())
	client.AssertNumberOfCalls(t, "FetchMeasurement", 3)
	client.AssertExpectations(t)

	prev, curr := ev.ProjectCoverage()
	require.NotNil(t, prev)
	assert.InDelta(t, 100.0, *prev, 1e-9)
	assert.InDelta(t, 35.0, curr, 1e-9)
}

func TestEvaluatorExcludedFileContributesNothing(t *testing.T) {
	client := &contract.MockMeasurementClient{}
	client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj:b.java")).Return(50.0, true).Once()
	client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj")).Return(100.0, true).Once()

	// a.java is excluded upstream and never reaches the evaluator
	scanned := javaFile("b.java", 100, 70)
	ev := NewEvaluator(client, DefaultRuleSet(), nil)
	ctx := context.Background()

	assert.NotNil(t, ev.EvaluateFile(ctx, scanned))
	project := ev.EvaluateProject(ctx, "org:proj", []schema.FileInput{scanned})
	require.NotNil(t, project)
	assert.InDelta(t, 30.0, project.Current, 1e-9)
	assert.Equal(t, schema.CoverageCounters{LinesToCover: 100, UncoveredLines: 70}, ev.Store().Totals())

	client.AssertNumberOfCalls(t, "FetchMeasurement", 2)
}

func TestEvaluateFile(t *testing.T) {
	tests := []struct {
		name        string
		previous    float64
		available   bool
		toCover     int
		uncovered   int
		wantFinding bool
	}{
		{"no baseline", 0, false, 100, 60, false},
		{"coverage dropped", 50, true, 100, 60, true},
		{"coverage unchanged", 40, true, 100, 60, false},
		{"coverage increased", 30, true, 100, 60, false},
		{"drop hidden by rounding", 40.04, true, 100, 60, false},
		{"binary value below half", 40.05, true, 100, 60, false},
		{"drop visible above half", 40.06, true, 100, 60, true},
		{"nothing to cover", 100, true, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &contract.MockMeasurementClient{}
			client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj:a.java")).Return(tt.previous, tt.available)

			ev := NewEvaluator(client, DefaultRuleSet(), nil)
			finding := ev.EvaluateFile(context.Background(), javaFile("a.java", tt.toCover, tt.uncovered))
			assert.Equal(t, tt.wantFinding, finding != nil)
			assert.Equal(t, 1, ev.Calls())
			assert.Equal(t, tt.toCover, ev.Store().Totals().LinesToCover)
		})
	}
}

func TestEvaluateFileWithoutCounters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	client := &contract.MockMeasurementClient{}

	ev := NewEvaluator(client, DefaultRuleSet(), logger)
	finding := ev.EvaluateFile(context.Background(), schema.FileInput{Path: "a.java", Language: "java"})

	assert.Nil(t, finding)
	assert.Equal(t, 1, ev.Skipped())
	assert.Equal(t, 0, ev.Calls())
	assert.Contains(t, buf.String(), "Could not retrieve measure of lines_to_cover for a.java")
	client.AssertNotCalled(t, "FetchMeasurement", mock.Anything, mock.Anything)
}

func TestEvaluateFileFallsBackToPath(t *testing.T) {
	client := &contract.MockMeasurementClient{}
	client.On("FetchMeasurement", mock.Anything, lineCoverage("src/a.go")).Return(0.0, false).Once()

	f := schema.FileInput{Path: "src/a.go", Language: "go", Counters: &schema.CoverageCounters{LinesToCover: 1}}
	assert.Nil(t, NewEvaluator(client, DefaultRuleSet(), nil).EvaluateFile(context.Background(), f))
	client.AssertExpectations(t)
}

func TestEvaluateProject(t *testing.T) {
	t.Run("no baseline still finalizes", func(t *testing.T) {
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj")).Return(0.0, false)

		ev := NewEvaluator(client, DefaultRuleSet(), nil)
		assert.Nil(t, ev.EvaluateProject(context.Background(), "org:proj", nil))
		assert.Equal(t, Finalized, ev.Store().State())

		prev, curr := ev.ProjectCoverage()
		assert.Nil(t, prev)
		assert.InDelta(t, MaxPercentage, curr, 1e-9)
	})

	t.Run("no languages means no finding", func(t *testing.T) {
		var buf bytes.Buffer
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, mock.Anything).Return(100.0, true)

		ev := NewEvaluator(client, DefaultRuleSet(), slog.New(slog.NewTextHandler(&buf, nil)))
		f := schema.FileInput{Path: "data.bin", Counters: &schema.CoverageCounters{LinesToCover: 10, UncoveredLines: 10}}
		ev.EvaluateFile(context.Background(), f)

		assert.Nil(t, ev.EvaluateProject(context.Background(), "org:proj", []schema.FileInput{f}))
		assert.Contains(t, buf.String(), "does not contain any languages")
	})

	t.Run("dominant language picks the rule", func(t *testing.T) {
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, mock.Anything).Return(90.0, false).Times(2)
		client.On("FetchMeasurement", mock.Anything, lineCoverage("org:proj")).Return(90.0, true)

		ev := NewEvaluator(client, DefaultRuleSet(), nil)
		files := []schema.FileInput{
			{Path: "a.go", Language: "go", Lines: 10, Counters: &schema.CoverageCounters{LinesToCover: 10, UncoveredLines: 5}},
			{Path: "B.java", Language: "java", Lines: 400, Counters: &schema.CoverageCounters{LinesToCover: 10, UncoveredLines: 5}},
		}
		for _, f := range files {
			ev.EvaluateFile(context.Background(), f)
		}
		finding := ev.EvaluateProject(context.Background(), "org:proj", files)
		require.NotNil(t, finding)
		assert.Equal(t, "java", finding.Language)
		assert.Equal(t, "coverageEvolution-java:decreasingOverallLineCoverage", finding.Rule.String())
	})
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "Line coverage of file src/a.java lowered from 94.5% to 31.1%.",
		FormatMessage("file src/a.java", 94.5, 31.09))
	assert.Equal(t, "Line coverage of the project lowered from 1.1% to 1.0%.",
		FormatMessage("the project", 1.05, 1.04))
}
