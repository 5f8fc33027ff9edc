package bankio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

// SheetName is the worksheet batches are written to and read from.
const SheetName = "Sheet1"

// xlsxColumns is the header row, in column order.
var xlsxColumns = []string{
	"id",
	"macro_block_id",
	"stimulus_text",
	"conclusion_text",
	"is_correct",
	"logic_group",
	"trick_type",
	"explanation",
}

func writeXLSX(w io.Writer, questions []syllogism.Question) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &xlsxColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, q := range questions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			q.ID,
			q.MacroBlockID,
			q.StimulusText,
			q.ConclusionText,
			q.IsCorrect,
			string(q.LogicGroup),
			string(q.TrickType),
			q.Explanation,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// readXLSX maps columns by header name, so reviewers may reorder or add
// columns without breaking the import.
func readXLSX(r io.Reader) ([]syllogism.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", SheetName)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{"id", "stimulus_text", "conclusion_text", "is_correct", "logic_group"} {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var qs []syllogism.Question
	for n, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		correct, err := strconv.ParseBool(cell(row, "is_correct"))
		if err != nil {
			return nil, fmt.Errorf("row %d: is_correct: %w", n+2, err)
		}
		qs = append(qs, syllogism.Question{
			ID:             cell(row, "id"),
			MacroBlockID:   cell(row, "macro_block_id"),
			StimulusText:   cell(row, "stimulus_text"),
			ConclusionText: cell(row, "conclusion_text"),
			IsCorrect:      correct,
			LogicGroup:     syllogism.LogicGroup(cell(row, "logic_group")),
			TrickType:      syllogism.TrickType(cell(row, "trick_type")),
			Explanation:    cell(row, "explanation"),
		})
	}
	return qs, nil
}
