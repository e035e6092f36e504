// Package config loads the settings of a layers application.
//
// Loading goes through four small interfaces so each step can be swapped in
// tests:
//   - Parser decodes raw data into a struct, optionally below a path
//   - DataFetcher returns raw data (see config/fetcher/file)
//   - Defaulter fills in missing values
//   - Validator rejects unusable values
//
// Paths use colon (:) as the separator, so "layers:inspect" selects
// config["layers"]["inspect"] and "" selects the whole document.
//
//	settings, err := config.LoadFile("layers.yaml", "")
package config
