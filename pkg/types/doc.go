// Package types defines the map record, the project metadata record, the
// storage configuration, and the standard errors shared by every Roamly
// package.
package types
