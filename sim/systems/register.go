package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// RegisterAll installs every built-in system simulator into the engine.
// Registration validates each simulator's schema, DTC rules and signature
// table, so a bad table fails here rather than mid-run.
func RegisterAll(e *sim.Engine) error {
	sims := []sim.SystemSimulator{
		NewCoolingSimulator(),
		NewFuelSimulator(),
		NewIgnitionSimulator(),
		NewChargingSimulator(),
		NewTransmissionSimulator(),
		NewBrakesSimulator(),
		NewEngineSimulator(),
		NewSteeringSimulator(),
		NewSuspensionSimulator(),
		NewHVACSimulator(),
		NewEmissionsSimulator(),
	}
	for _, s := range sims {
		if err := e.Register(s); err != nil {
			return err
		}
	}
	return nil
}
