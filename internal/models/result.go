package models

import "time"

// RecordResult is the outcome of moving one source record. A nil Err is a success.
type RecordResult struct {
	Key     string
	Skipped bool
	Err     error
}

func Succeeded(key string) RecordResult { return RecordResult{Key: key} }

func Skipped(key string) RecordResult { return RecordResult{Key: key, Skipped: true} }

func Failed(key string, err error) RecordResult { return RecordResult{Key: key, Err: err} }

// Tally aggregates record results for one collection.
type Tally struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

func (t *Tally) Add(r RecordResult) {
	switch {
	case r.Err != nil:
		t.Errors++
	case r.Skipped:
		t.Skipped++
	default:
		t.Migrated++
	}
}

type CollectionResult struct {
	Collection string `json:"collection"`
	Tally
}

type ReadingsResult struct {
	TotalReadings int `json:"total_readings"`
	TotalDevices  int `json:"total_devices"`
	Skipped       int `json:"skipped"`
	Errors        int `json:"errors"`
}

type RegistryResult struct {
	ChatCount int   `json:"chat_count"`
	Err       error `json:"-"`
}

type CountCheck struct {
	Source      int  `json:"source"`
	Destination int  `json:"destination"`
	Match       bool `json:"match"`
}

func NewCountCheck(source, destination int) CountCheck {
	return CountCheck{Source: source, Destination: destination, Match: source == destination}
}

type SampleCheck struct {
	DeviceID string `json:"device_id"`
	CountCheck
}

type ValidationResult struct {
	Users   CountCheck   `json:"users"`
	Devices CountCheck   `json:"devices"`
	Sample  *SampleCheck `json:"sample,omitempty"`
	Valid   bool         `json:"valid"`
}

// Report is the end-of-run summary of one migration.
type Report struct {
	Backup     string            `json:"backup,omitempty"`
	Users      CollectionResult  `json:"users"`
	Devices    CollectionResult  `json:"devices"`
	Readings   ReadingsResult    `json:"readings"`
	Registry   RegistryResult    `json:"registry"`
	Validation *ValidationResult `json:"validation,omitempty"`
	Duration   time.Duration     `json:"duration"`
	Critical   error             `json:"-"`
}

// ExitCode is 0 only for a validated run with no critical failure.
func (r Report) ExitCode() int {
	if r.Critical != nil || r.Validation == nil || !r.Validation.Valid {
		return 1
	}
	return 0
}

// AlertSummary describes one alert evaluation cycle.
type AlertSummary struct {
	DevicesChecked   int       `json:"devices_checked"`
	DevicesOverLimit int       `json:"devices_over_limit"`
	AlertsSent       int       `json:"alerts_sent"`
	SendFailures     int       `json:"send_failures"`
	ActiveTargets    int       `json:"active_targets"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}
