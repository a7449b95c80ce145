package domain

import "errors"

var (
	ErrInputRead      = errors.New("input file could not be read")
	ErrInputMalformed = errors.New("input is not a JSON invoice batch")
	ErrExportFailed   = errors.New("report export failed")
)
