// Package file provides the TOML configuration store.
//
// The file lives at ~/.ncedit/config.toml unless another directory is given.
// Tables map to dotted keys, so
//
//	[classifier]
//	host = "nc.example.com"
//
// is read back as "classifier.host".
package file
