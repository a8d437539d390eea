package storage

import "errors"

var (
	ErrLotNotFound       = errors.New("lot not found")
	ErrLotExists         = errors.New("lot already exists")
	ErrRollExists        = errors.New("roll already exists")
	ErrBundlesExist      = errors.New("bundles already generated for lot")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrTemplateExists    = errors.New("template already exists")
	ErrWorkItemNotFound  = errors.New("work item not found")
	ErrOperatorNotFound  = errors.New("operator not found")
	ErrInvalidTransition = errors.New("invalid work item status transition")
)
