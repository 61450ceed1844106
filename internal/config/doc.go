// Package config defines the format-agnostic boundary between text formats
// and the resource model.
//
// Every supported format is reduced to the same generic tree (see package
// tree) by a Loader, and a generic tree is rendered back to text by an
// Emitter. Concrete implementations live in separate packages
// (yaml_adapter, hcl_adapter); Formats selects between them by file
// extension and output name.
package config
