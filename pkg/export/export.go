// Package export serializes simulation results for the reporting layer.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/bessim/core/model"
)

// WriteJSON writes the daily result to w in JSON format.
func WriteJSON(w io.Writer, result model.DailyResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteCSV writes the hourly flows of a daily result to w.
func WriteCSV(w io.Writer, result model.DailyResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"hour", "soc_start_kwh", "soc_end_kwh",
		"battery_charge_kw", "battery_discharge_kw",
		"grid_import_kw", "grid_export_kw",
		"pv_to_load_kw", "battery_to_load_kw", "grid_to_load_kw",
		"pv_to_battery_kw", "pv_to_grid_kw", "cost",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, f := range result.Flows {
		rec := []string{
			strconv.Itoa(f.Hour),
			fmtFloat(f.SoCStartKWh),
			fmtFloat(f.SoCEndKWh),
			fmtFloat(f.BatteryChargeKW),
			fmtFloat(f.BatteryDischargeKW),
			fmtFloat(f.GridImportKW),
			fmtFloat(f.GridExportKW),
			fmtFloat(f.PVToLoadKW),
			fmtFloat(f.BatteryToLoadKW),
			fmtFloat(f.GridToLoadKW),
			fmtFloat(f.PVToBatteryKW),
			fmtFloat(f.PVToGridKW),
			fmtFloat(f.Cost),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
