package workbook

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrMissingInput matches every missing-sheet and missing-column error.
var ErrMissingInput = errors.New("missing required input")

// MissingSheetError reports a required sheet absent from the workbook.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("missing required sheet %q", e.Sheet)
}

func (e *MissingSheetError) Is(target error) bool {
	return target == ErrMissingInput
}

// MissingColumnError reports a required column absent from a sheet.
type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, strings.ReplaceAll(e.Column, "\n", " "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingInput
}

func missingSheet(sheet string) error {
	return pkgerrors.WithStack(&MissingSheetError{Sheet: sheet})
}

func missingColumn(sheet, column string) error {
	return pkgerrors.WithStack(&MissingColumnError{Sheet: sheet, Column: column})
}
