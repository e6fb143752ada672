// Package ranging defines the measurement report types delivered by the
// UWB session stack and the validity rules applied at the ingest boundary.
package ranging

// Kind tags a measurement report. Only two-way ranging reports carry
// distances this core cares about.
type Kind uint8

const (
	KindUnknown Kind = 0
	KindRanging Kind = 1
)

// Status is the per-result status code reported by the ranging engine.
type Status uint8

const (
	StatusOK     Status = 0
	StatusFailed Status = 1
)

// DistanceUnavailable is the sentinel reported when the engine produced no
// usable distance for a result slot.
const DistanceUnavailable = -1.0

// Hardware ranging envelope, in meters. Readings outside this band are
// artifacts and must not reach consumers.
const (
	MinRange = 0.1
	MaxRange = 100.0
)

// Result is one ranging outcome within a report.
type Result struct {
	Status   Status  `cbor:"1,keyasint"`
	Distance float64 `cbor:"2,keyasint"`
}

// Valid reports whether the result may be forwarded downstream: success
// status, a real distance, and within the hardware envelope.
func (r Result) Valid() bool {
	if r.Status != StatusOK {
		return false
	}
	if r.Distance == DistanceUnavailable {
		return false
	}
	return r.Distance >= MinRange && r.Distance <= MaxRange
}

// Report is a raw measurement report for one peer.
type Report struct {
	Kind     Kind     `cbor:"1,keyasint"`
	Identity string   `cbor:"2,keyasint"`
	Results  []Result `cbor:"3,keyasint,omitempty"`
}

// Quality is the coarse link quality band derived from distance.
type Quality uint8

const (
	QualityPoor Quality = iota
	QualityFair
	QualityGood
	QualityExcellent
)

func (q Quality) String() string {
	switch q {
	case QualityPoor:
		return "poor"
	case QualityFair:
		return "fair"
	case QualityGood:
		return "good"
	case QualityExcellent:
		return "excellent"
	}
	return "unknown"
}

// QualityForDistance maps an accepted distance to a quality band. Distances
// that never passed the filter (DistanceUnavailable) rate as poor.
func QualityForDistance(d float64) Quality {
	switch {
	case d < MinRange || d > MaxRange:
		return QualityPoor
	case d <= 5.0:
		return QualityExcellent
	case d <= 20.0:
		return QualityGood
	case d <= 50.0:
		return QualityFair
	}
	return QualityPoor
}
