// Package utils provides common utility functions for the medialink application.
// It includes helper functions for type conversion of loosely typed metadata values
// (classifier output, template data) that doesn't fit into domain-specific packages.
package utils
