// Package export writes evaluation results to comparison workbooks.
package export

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/eval-cli/internal/model"
)

var summaryColumns = []string{
	"Backend",
	"Provider",
	"Succeeded",
	"Required Score",
	"Optional Score",
	"Overall Score",
	"Iterations",
	"Wall Time (s)",
	"Error",
}

var fieldColumns = []string{
	"Backend",
	"Field",
	"Strategy",
	"Matched",
	"Confidence",
	"Expected",
	"Actual",
	"Diagnostic",
}

// WriteWorkbook writes a backend-comparison workbook for one evaluation
// run: a Summary sheet with per-backend scores and a Fields sheet with
// every field match result.
func WriteWorkbook(res *model.TestExecutionResult, path string) error {
	if res == nil {
		return eris.New("export: nil result")
	}

	f := xlsx.NewFile()

	if err := writeSummarySheet(f, res); err != nil {
		return err
	}
	if err := writeFieldsSheet(f, res); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "export: save workbook %s", path)
}

func writeSummarySheet(f *xlsx.File, res *model.TestExecutionResult) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Test")
	header.AddCell().SetString(res.TestName)
	meta := sheet.AddRow()
	meta.AddCell().SetString("Subject")
	meta.AddCell().SetString(res.SubjectName)
	best := sheet.AddRow()
	best.AddCell().SetString("Best Backend")
	best.AddCell().SetString(res.BestBackend)
	mean := sheet.AddRow()
	mean.AddCell().SetString("Mean Overall Score")
	mean.AddCell().SetFloat(res.MeanOverallScore)
	sheet.AddRow()

	cols := sheet.AddRow()
	for _, c := range summaryColumns {
		cols.AddCell().SetString(c)
	}

	for _, br := range res.BackendResults {
		row := sheet.AddRow()
		row.AddCell().SetString(br.BackendName)
		row.AddCell().SetString(br.ProviderID)
		row.AddCell().SetString(fmt.Sprintf("%t", br.Succeeded))
		row.AddCell().SetFloat(br.RequiredScore)
		row.AddCell().SetFloat(br.OptionalScore)
		row.AddCell().SetFloat(br.OverallScore)
		row.AddCell().SetInt(br.IterationCount)
		row.AddCell().SetFloat(br.WallTime)
		row.AddCell().SetString(br.Error)
	}

	return nil
}

func writeFieldsSheet(f *xlsx.File, res *model.TestExecutionResult) error {
	sheet, err := f.AddSheet("Fields")
	if err != nil {
		return eris.Wrap(err, "export: add fields sheet")
	}

	cols := sheet.AddRow()
	for _, c := range fieldColumns {
		cols.AddCell().SetString(c)
	}

	for _, br := range res.BackendResults {
		for _, name := range sortedFieldNames(br.FieldResults) {
			fr := br.FieldResults[name]
			row := sheet.AddRow()
			row.AddCell().SetString(br.BackendName)
			row.AddCell().SetString(fr.FieldName)
			row.AddCell().SetString(string(fr.Strategy))
			row.AddCell().SetString(fmt.Sprintf("%t", fr.Matched))
			row.AddCell().SetFloat(fr.Confidence)
			row.AddCell().SetString(fmt.Sprintf("%v", fr.ExpectedValue))
			row.AddCell().SetString(fmt.Sprintf("%v", fr.ActualValue))
			row.AddCell().SetString(fr.Diagnostic)
		}
	}

	return nil
}

// sortedFieldNames keeps row order deterministic across exports.
func sortedFieldNames(results map[string]model.FieldMatchResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
