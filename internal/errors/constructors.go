package errors

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalid(field, reason string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration value").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Per-file pipeline errors

func ParseFailed(path string, cause error) *BuildError {
	return Wrap(cause, CategoryParse, SeverityError, "content parse failed").
		WithContext("path", path)
}

func RenderFailed(path string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityError, "markdown render failed").
		WithContext("path", path)
}

func WriteFailed(path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "output write failed").
		WithContext("path", path)
}

func DuplicateSlug(slug, path, other string) *BuildError {
	return New(CategoryParse, SeverityError, "duplicate slug").
		WithContext("slug", slug).
		WithContext("path", path).
		WithContext("conflicts_with", other)
}

// Theme errors

func ThemeNotFound(name string) *BuildError {
	return New(CategoryTheme, SeverityWarning, "theme not installed").
		WithContext("theme", name)
}

func ThemeInstallFailed(url string, cause error) *BuildError {
	return Wrap(cause, CategoryTheme, SeverityFatal, "theme install failed").
		WithContext("url", url)
}

// Internal errors

func Internal(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
