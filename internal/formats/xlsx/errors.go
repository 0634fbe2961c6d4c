package xlsx

import "fmt"

// lenientCellValues is the per-cell recovery policy: when true, malformed
// shared-string references and out-of-range indexes resolve to the empty
// string instead of failing the whole read. The surrounding tooling treats
// missing data as "nothing found", so this stays on. Structural failures
// (unopenable archive, missing worksheet part) are fatal regardless.
const lenientCellValues = true

// ReadError reports that a workbook package could not be read: the archive
// is unopenable or its worksheet part is missing or unparseable. Per-cell
// anomalies never produce a ReadError.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read workbook %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports that a workbook package could not be written to its
// destination. The writer stages output in a temporary file, so a failed
// write never leaves a half-written archive at the destination path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write workbook %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
