package report

import "errors"

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrInvalidReportState = errors.New("report has already been verified")
	ErrForbidden          = errors.New("not allowed to access this report")
)
