package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/loopviz/internal/scenario"
)

type ExportData struct {
	Name  string          `json:"name"`
	Code  []string        `json:"code"`
	Total int             `json:"total"`
	Steps []scenario.Step `json:"steps"`
}

// ExportJSON writes the walkthrough as indented JSON.
func ExportJSON(w io.Writer, sc scenario.Scenario) error {
	data := ExportData{
		Name:  sc.Name,
		Code:  sc.Code,
		Total: sc.Len(),
		Steps: sc.Steps,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes one row per step with region depths and the latest
// output line.
func ExportCSV(w io.Writer, sc scenario.Scenario) error {
	cw := csv.NewWriter(w)
	header := []string{"step", "title"}
	for _, r := range scenario.Regions {
		header = append(header, string(r))
	}
	header = append(header, "output_lines", "highlight", "last_output")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, st := range sc.Steps {
		row := []string{strconv.Itoa(i + 1), st.Title}
		for _, r := range scenario.Regions {
			items, ok := st.Items(r)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.Itoa(len(items)))
		}
		last := ""
		if n := len(st.Output); n > 0 {
			last = st.Output[n-1]
		}
		row = append(row, strconv.Itoa(len(st.Output)), string(st.Highlight), last)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
