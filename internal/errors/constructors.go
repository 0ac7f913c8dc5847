package errors

// Convenience constructors for the error kinds produced by the pipeline.

// ParseError reports a metadata file that is not well-formed YAML.
func ParseError(path string, cause error) *FolioError {
	return Wrap(cause, CategoryParse, SeverityError, "malformed metadata file").
		WithContext("path", path)
}

// ValidationError reports a metadata record failing a schema rule.
func ValidationError(path, field, reason string) *FolioError {
	return New(CategoryValidation, SeverityError, "validation failed").
		WithContext("path", path).
		WithContext("field", field).
		WithContext("reason", reason)
}

// RenderError reports a template/data mismatch while producing a page.
func RenderError(page string, cause error) *FolioError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("page", page)
}

// IOError reports a filesystem failure while assembling output.
func IOError(operation string, cause error) *FolioError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

// ConfigError reports an unusable configuration file.
func ConfigError(message string, cause error) *FolioError {
	return Wrap(cause, CategoryConfig, SeverityFatal, message)
}
