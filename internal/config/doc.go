// Package config holds the tuning aggregate for the board reader.
//
// Every numeric threshold used by line detection, grid inference, geometry
// assembly, feature extraction, calibration, scoring, the rejection policy and
// refinement is a named field of Config with a default in Default. Stages
// receive the aggregate (or their sub-struct) explicitly; nothing is held in
// package-level state, so tuning tools can sweep many configurations
// concurrently.
//
// # Files
//
// Load reads YAML, JSON or TOML through viper on top of the defaults:
//
//	cfg, err := config.Load("tuning.yaml")
//	if err != nil {
//	    return err
//	}
//
// Keys use snake_case and are grouped by stage, for example:
//
//	grid:
//	  snap_tolerance: 0.2
//	policy:
//	  min_abs_z: 3
//
// # Validation
//
// Validate collects every problem with multierr so a tuning file can be fixed
// in one pass.
package config
