package domain

// NotFoundText is the degenerate extraction result for a missing document.
// Callers detect it by exact comparison against the path they asked for.
func NotFoundText(path string) string { return "File not found at path: " + path }
