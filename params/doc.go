// Package params loads problem and framework configuration from JSON.
//
// Every key is optional; missing keys take the documented defaults, so an
// empty document is a valid configuration. Lookups go through gjson paths,
// which keeps unknown keys harmless.
package params
