package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/kilianp07/bessim/core/model"
)

func sampleResult() model.DailyResult {
	return model.DailyResult{
		Flows: []model.HourlyFlow{
			{Hour: 0, SoCStartKWh: 5, SoCEndKWh: 5, GridImportKW: 1, GridToLoadKW: 1, Cost: 0.15},
			{Hour: 1, SoCStartKWh: 5, SoCEndKWh: 6, BatteryChargeKW: 1.5, PVToBatteryKW: 1.5},
		},
		GridImportKWh: 1,
		DailyCost:     0.15,
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded model.DailyResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Flows) != 2 || decoded.DailyCost != 0.15 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "hour" || len(records[0]) != 13 {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "0" || records[1][5] != "1" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	if records[2][3] != "1.5" {
		t.Fatalf("unexpected charge column: %v", records[2])
	}
}
