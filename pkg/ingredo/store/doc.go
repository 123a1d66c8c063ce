// Package store defines scan history persistence. Backends live in the
// sqlite and memstore subpackages.
package store
