// Package types defines the Fetcher contract, the Record snapshot type,
// resource and relation names, typed resource views, configuration, and the
// standard error values shared by the planka model layer and its backends.
package types
