package internal

import "errors"

var (
	ErrAbortedInput              = errors.New("input aborted")
	ErrInvalidAnswers            = errors.New("invalid answers")
	ErrFileSystemConflict        = errors.New("file system conflict")
	ErrSubstitutionTargetMissing = errors.New("substitution target missing")
	ErrDependencyInstall         = errors.New("dependency installation failed")
)
