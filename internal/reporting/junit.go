package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/microsoft/modelbench/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one model of a run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one (model, test case) cell.
type JUnitTestCase struct {
	XMLName   xml.Name    `xml:"testcase"`
	Name      string      `xml:"name,attr"`
	Classname string      `xml:"classname,attr"`
	Time      float64     `xml:"time,attr"`
	Error     *JUnitError `xml:"error,omitempty"`
	SystemOut string      `xml:"system-out,omitempty"`
}

// JUnitError represents a cell whose inference call failed.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a run and its cell results to JUnit XML, one
// suite per enabled model in config order.
func ConvertToJUnit(run *models.BenchmarkRun, results []*models.TestCaseResult) *JUnitTestSuites {
	byModel := make(map[string][]*models.TestCaseResult)
	for _, r := range results {
		byModel[r.ModelID] = append(byModel[r.ModelID], r)
	}

	out := &JUnitTestSuites{Name: run.Config.Name}
	for _, m := range run.Config.EnabledModels() {
		suite := JUnitTestSuite{
			Name:      m.ModelID,
			Timestamp: run.CreatedAt.UTC().Format(time.RFC3339),
		}

		var cost float64
		for _, r := range byModel[m.ModelID] {
			tc := convertResult(run, r)
			suite.TestCases = append(suite.TestCases, tc)
			suite.Tests++
			suite.Time += tc.Time
			if tc.Error != nil {
				suite.Errors++
			}
			cost += r.Cost
		}
		suite.Properties = []JUnitProperty{
			{Name: "run", Value: run.ID},
			{Name: "cost", Value: fmt.Sprintf("%.6f", cost)},
		}

		out.Tests += suite.Tests
		out.Errors += suite.Errors
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func convertResult(run *models.BenchmarkRun, r *models.TestCaseResult) JUnitTestCase {
	name := r.TestCaseID
	if tc, ok := run.Config.TestCase(r.TestCaseID); ok {
		name = tc.DisplayName()
	}

	tc := JUnitTestCase{
		Name:      name,
		Classname: r.ModelID,
		Time:      float64(r.LatencyMs) / 1000.0,
	}
	if !r.Succeeded() {
		tc.Error = &JUnitError{Message: r.Error, Type: "InferenceError"}
		return tc
	}
	if r.ServedBy != "" && r.ServedBy != r.ModelID {
		tc.SystemOut = fmt.Sprintf("served by %s", r.ServedBy)
	}
	return tc
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(run *models.BenchmarkRun, results []*models.TestCaseResult, path string) error {
	data, err := MarshalJUnit(run, results)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalJUnit returns the indented JUnit XML document of a run.
func MarshalJUnit(run *models.BenchmarkRun, results []*models.TestCaseResult) ([]byte, error) {
	data, err := xml.MarshalIndent(ConvertToJUnit(run, results), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
