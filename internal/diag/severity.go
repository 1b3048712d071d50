package diag

// Severity orders diagnostics; any SevError fails the function it belongs to.
type Severity uint8

const (
	// SevInfo records a rewrite the transpiler made on its own, such as an
	// inserted clone.
	SevInfo Severity = iota
	// SevWarning flags output that is valid Rust but likely not what was meant.
	SevWarning
	// SevError blocks code generation for the enclosing function.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
