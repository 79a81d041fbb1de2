// Package config loads the calibration of the table reconstruction
// pipeline from YAML.
//
// A calibration file carries one section per tunable package. Values left
// out keep their defaults, so a file can override a single threshold:
//
//	tables:
//	  split_tolerance: 3
//	correction:
//	  max_drops: 4
//	workers: 8
//
// Files are looked up with [FindFile]: an explicit path, then
// .tabgrid.yaml in the working directory, then config.yaml under the XDG
// config directory.
package config
