package metrics

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/infra/logger"
)

// InfluxSink writes simulation records to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDay writes the daily result as a point.
func (s *InfluxSink) RecordDay(rec coremetrics.DayRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("simulation_day").
		AddTag("run_id", rec.RunID).
		AddTag("policy", rec.Policy).
		AddTag("day", strconv.Itoa(rec.Day)).
		AddField("daily_cost", round3(rec.DailyCost)).
		AddField("self_consumption", round3(rec.SelfConsumption)).
		AddField("self_sufficiency", round3(rec.SelfSufficiency)).
		AddField("cycle_equivalent", round3(rec.CycleEquivalent)).
		AddField("peak_import_kw", round3(rec.PeakImportKW)).
		AddField("degradation", round3(rec.Degradation)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrial writes an optimizer trial as a point.
func (s *InfluxSink) RecordTrial(rec coremetrics.TrialRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_trial").
		AddTag("run_id", rec.RunID).
		AddTag("search", rec.Search).
		AddTag("best", strconv.FormatBool(rec.Best)).
		AddField("objective", round3(rec.Objective)).
		SetTime(rec.Time)
	for k, v := range rec.Parameters {
		// Payback sentinels can be +Inf, which line protocol rejects.
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		p = p.AddField(fmt.Sprintf("param_%s", k), round3(v))
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
