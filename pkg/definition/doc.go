// Package definition loads form definitions: declarative YAML documents, the
// embedded patient intake form, and forms derived from an OpenAPI request
// body.
package definition
