// Package config loads fmcheck settings with Viper.
//
// # Configuration File
//
// config.yaml is searched in the working directory and then in
// $XDG_CONFIG_HOME/fmcheck. Every key is optional:
//
//	version: 1
//	content_directory: content   # tree to validate
//	format: text                 # text, json, or github
//	mode: enforce                # enforce or warn
//
// # Environment
//
// Each key can be set as FMCHECK_<KEY>, e.g. FMCHECK_MODE=warn. The content
// directory also honors INPUT_CONTENT_DIRECTORY so the binary can run as a
// GitHub Action step without extra wiring.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")    // search default locations
//	if errs := config.Validate(cfg); len(errs) > 0 {
//		// report
//	}
package config
