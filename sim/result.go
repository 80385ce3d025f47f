package sim

import (
	"sort"

	"github.com/google/uuid"
)

// LabelNormal is the training label used for runs without an injected failure.
const LabelNormal = "normal"

// TimeSeriesPoint is one recorded instant: elapsed time plus a snapshot of
// every observable sensor. Internal physical variables are never recorded.
type TimeSeriesPoint struct {
	Time   float64            `json:"time"`
	Values map[string]float64 `json:"values"`
}

// SimulationResult is the complete outcome of one Simulate call: the config
// that produced it, the ordered sensor time series, the final state, and the
// union of every DTC that fired at any step. Append-only during the run,
// read-only afterwards.
type SimulationResult struct {
	SystemID  string            `json:"system_id"`
	FailureID string            `json:"failure_id,omitempty"`
	Config    SimulationConfig  `json:"config"`
	Points    []TimeSeriesPoint `json:"points"`

	FinalState    map[string]float64 `json:"final_state"`
	TriggeredDTCs map[string]bool    `json:"-"`

	// DTCs is the sorted snapshot of TriggeredDTCs, filled when the run
	// completes so the serialized result carries the codes.
	DTCs []string `json:"dtcs"`
}

// NewSimulationResult creates an empty result for a run.
func NewSimulationResult(systemID string, cfg SimulationConfig) *SimulationResult {
	return &SimulationResult{
		SystemID:      systemID,
		FailureID:     cfg.FailureID,
		Config:        cfg,
		Points:        make([]TimeSeriesPoint, 0, int(cfg.DurationSeconds/cfg.TimeStep)+1),
		TriggeredDTCs: make(map[string]bool),
	}
}

// Record appends one time step. The sensor map is copied so later mutation
// of the live state cannot rewrite history.
func (r *SimulationResult) Record(t float64, sensors map[string]float64) {
	values := make(map[string]float64, len(sensors))
	for name, v := range sensors {
		values[name] = v
	}
	r.Points = append(r.Points, TimeSeriesPoint{Time: t, Values: values})
}

// AddDTCs unions newly fired codes into the accumulated set.
func (r *SimulationResult) AddDTCs(codes []string) {
	for _, code := range codes {
		r.TriggeredDTCs[code] = true
	}
}

// DTCList returns the triggered codes in sorted order.
func (r *SimulationResult) DTCList() []string {
	codes := make([]string, 0, len(r.TriggeredDTCs))
	for code := range r.TriggeredDTCs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Label returns the training label: the failure id, or "normal".
func (r *SimulationResult) Label() string {
	if r.FailureID == "" {
		return LabelNormal
	}
	return r.FailureID
}

// SensorSeries returns the recorded series for one sensor, one value per step.
func (r *SimulationResult) SensorSeries(name string) []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Values[name]
	}
	return out
}

// TrainingSample is the flat labeled record consumed by the external model
// training pipeline: column-major sensor series plus label metadata.
type TrainingSample struct {
	ID          string               `json:"id"`
	SystemID    string               `json:"system_id"`
	TimeSeries  map[string][]float64 `json:"time_series"`
	Times       []float64            `json:"times"`
	FinalState  map[string]float64   `json:"final_state"`
	DTCs        []string             `json:"dtcs"`
	Label       string               `json:"label"`
	IsFailure   bool                 `json:"is_failure"`
	Condition   OperatingCondition   `json:"operating_condition"`
	AmbientTemp float64              `json:"ambient_temp"`
}

// ToTrainingSample pivots the row-major point sequence into the column-major
// labeled record the training pipeline expects.
func (r *SimulationResult) ToTrainingSample() *TrainingSample {
	sample := &TrainingSample{
		ID:          uuid.NewString(),
		SystemID:    r.SystemID,
		TimeSeries:  make(map[string][]float64),
		Times:       make([]float64, len(r.Points)),
		FinalState:  r.FinalState,
		DTCs:        r.DTCList(),
		Label:       r.Label(),
		IsFailure:   r.FailureID != "",
		Condition:   r.Config.Condition,
		AmbientTemp: r.Config.AmbientTempC,
	}
	for i, p := range r.Points {
		sample.Times[i] = p.Time
		for name, v := range p.Values {
			sample.TimeSeries[name] = append(sample.TimeSeries[name], v)
		}
	}
	return sample
}
