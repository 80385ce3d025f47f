package sim

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Band is a closed numeric interval [Lo, Hi] in sensor units.
type Band struct {
	Lo, Hi float64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Lo && v <= b.Hi
}

// Overlaps reports whether the two closed intervals intersect.
func (b Band) Overlaps(o Band) bool {
	return b.Lo <= o.Hi && o.Lo <= b.Hi
}

// Valid reports whether the band is non-inverted.
func (b Band) Valid() bool {
	return b.Lo <= b.Hi
}

// SensorEffect is the deterministic, severity-parameterized target a failure
// imposes on one sensor. The applied value is
//
//	lerp(AtZero, AtOne, severity) + uniform(-Jitter, +Jitter)
//
// clamped into Band. Band is the documented acceptance region for the
// failure on this sensor; registration verifies the reachable values stay
// inside it, so the clamp never actually bites.
type SensorEffect struct {
	AtZero float64
	AtOne  float64
	Jitter float64
	Band   Band
}

// Target returns the jitter-free target value at the given severity.
func (e SensorEffect) Target(severity float64) float64 {
	return e.AtZero + (e.AtOne-e.AtZero)*severity
}

// bandEpsilon absorbs the rounding error of the severity lerp when a
// target plus jitter lands exactly on a band edge. Apply clamps into the
// band, so an overshoot this small never reaches a recorded sensor.
const bandEpsilon = 1e-9

// Validate checks the effect's reachable values sit inside its band.
func (e SensorEffect) Validate() error {
	if !e.Band.Valid() {
		return fmt.Errorf("inverted band [%g, %g]", e.Band.Lo, e.Band.Hi)
	}
	if e.Jitter < 0 {
		return fmt.Errorf("negative jitter %g", e.Jitter)
	}
	for _, sev := range []float64{0, 1} {
		t := e.Target(sev)
		if t-e.Jitter < e.Band.Lo-bandEpsilon || t+e.Jitter > e.Band.Hi+bandEpsilon {
			return fmt.Errorf("target %g ± %g at severity %g escapes band [%g, %g]",
				t, e.Jitter, sev, e.Band.Lo, e.Band.Hi)
		}
	}
	return nil
}

// Apply draws the effect's value for one step.
func (e SensorEffect) Apply(severity float64, jitter *rand.Rand) float64 {
	v := e.Target(severity)
	if e.Jitter > 0 && jitter != nil {
		u := distuv.Uniform{Min: -e.Jitter, Max: e.Jitter, Src: jitter}
		v += u.Rand()
	}
	if v < e.Band.Lo {
		v = e.Band.Lo
	}
	if v > e.Band.Hi {
		v = e.Band.Hi
	}
	return v
}

// Signature is the declarative sensor-space footprint of one failure mode:
// a map from sensor name to the effect the failure imposes there. Sensors
// absent from the map keep their physics-computed values.
type Signature struct {
	FailureID string
	Effects   map[string]SensorEffect
}

// Apply writes every effect into the state's sensors.
func (sig Signature) Apply(st State, severity float64, jitter *rand.Rand) {
	// Deterministic iteration order so the jitter stream is consumed
	// identically on every run with the same seed.
	names := make([]string, 0, len(sig.Effects))
	for name := range sig.Effects {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st.Sensors[name] = sig.Effects[name].Apply(severity, jitter)
	}
}

// SignatureSet owns the full signature table of one simulator: the normal
// operating band per key sensor plus one Signature per failure mode. It is
// declared statically so separability can be checked without running a
// single simulation.
type SignatureSet struct {
	// Normal documents the converged normal-operation band per sensor.
	// Used as the comparison band when a failure leaves a sensor alone.
	Normal map[string]Band
	// Failures maps failure id to its signature.
	Failures map[string]Signature
}

// FailureIDs returns the declared failure ids in sorted order.
func (ss *SignatureSet) FailureIDs() []string {
	ids := make([]string, 0, len(ss.Failures))
	for id := range ss.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the signature for a failure id.
func (ss *SignatureSet) Lookup(failureID string) (Signature, bool) {
	sig, ok := ss.Failures[failureID]
	return sig, ok
}

// bandFor returns the band a failure occupies on a sensor: its declared
// effect band if it perturbs the sensor, otherwise the normal band.
func (ss *SignatureSet) bandFor(sig Signature, sensor string) (Band, bool) {
	if eff, ok := sig.Effects[sensor]; ok {
		return eff.Band, true
	}
	b, ok := ss.Normal[sensor]
	return b, ok
}

// Validate checks every effect individually and that all referenced sensors
// are declared in the schema.
func (ss *SignatureSet) Validate(schema StateSchema) error {
	for sensor, b := range ss.Normal {
		if !schema.HasSensor(sensor) {
			return fmt.Errorf("normal band references undeclared sensor %q", sensor)
		}
		if !b.Valid() {
			return fmt.Errorf("normal band for %q inverted [%g, %g]", sensor, b.Lo, b.Hi)
		}
	}
	for id, sig := range ss.Failures {
		if sig.FailureID != id {
			return fmt.Errorf("signature keyed %q declares failure id %q", id, sig.FailureID)
		}
		if len(sig.Effects) == 0 {
			return fmt.Errorf("failure %q declares no sensor effects", id)
		}
		for sensor, eff := range sig.Effects {
			if !schema.HasSensor(sensor) {
				return fmt.Errorf("failure %q references undeclared sensor %q", id, sensor)
			}
			if err := eff.Validate(); err != nil {
				return fmt.Errorf("failure %q sensor %q: %w", id, sensor, err)
			}
		}
	}
	return nil
}

// CheckSeparability verifies the structural property the whole dataset
// design rests on: every pair of failure modes — and every failure against
// the normal baseline — is distinguishable on at least one sensor whose
// bands do not overlap. A failure that leaves a sensor untouched occupies
// the normal band there.
func (ss *SignatureSet) CheckSeparability() error {
	ids := ss.FailureIDs()

	// Every failure must leave the normal region on some sensor.
	for _, id := range ids {
		sig := ss.Failures[id]
		if !ss.separatedFromNormal(sig) {
			return fmt.Errorf("failure %q is not separable from normal operation", id)
		}
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if !ss.pairSeparable(ss.Failures[ids[i]], ss.Failures[ids[j]]) {
				return fmt.Errorf("failures %q and %q overlap on every sensor", ids[i], ids[j])
			}
		}
	}
	return nil
}

func (ss *SignatureSet) separatedFromNormal(sig Signature) bool {
	for sensor, eff := range sig.Effects {
		normal, ok := ss.Normal[sensor]
		if !ok {
			continue
		}
		if !eff.Band.Overlaps(normal) {
			return true
		}
	}
	return false
}

func (ss *SignatureSet) pairSeparable(a, b Signature) bool {
	// Union of sensors either failure perturbs.
	sensors := map[string]struct{}{}
	for s := range a.Effects {
		sensors[s] = struct{}{}
	}
	for s := range b.Effects {
		sensors[s] = struct{}{}
	}
	for s := range sensors {
		ba, okA := ss.bandFor(a, s)
		bb, okB := ss.bandFor(b, s)
		if !okA || !okB {
			continue
		}
		if !ba.Overlaps(bb) {
			return true
		}
	}
	return false
}
