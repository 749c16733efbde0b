package analysis

import "errors"

var (
	// ErrInvalidColumn indicates a requested key is not among the table's columns.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrUnknownAnalysis indicates an analysis kind the engine does not implement.
	ErrUnknownAnalysis = errors.New("unknown analysis type")
	// ErrDuplicateColumn indicates two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrRaggedRow indicates a row whose width differs from the header.
	ErrRaggedRow = errors.New("row width does not match header")
)
