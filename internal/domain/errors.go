package domain

import "errors"

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrUnsupportedFileType      = errors.New("unsupported file type")
	ErrUnsupportedInsuranceType = errors.New("unsupported insurance type")
	ErrFileTooLarge             = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed             = errors.New("file upload to storage failed")
	ErrEmptyDocument            = errors.New("document is empty")
)
