// Package config defines the YAML configuration model for the tool/prompt
// registry (global settings, prompt bindings and tool bindings) as well as
// helper functions to load, validate and re-serialise the configuration file.
// Schema violations are reported as *Error values naming the offending field.
package config
