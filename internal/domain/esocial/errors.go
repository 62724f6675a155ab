package esocial

import "errors"

var (
	ErrBuilderNotImplemented = errors.New("esocial event builder not implemented")
	ErrEventNotFound         = errors.New("esocial event not found")
	ErrBatchNotFound         = errors.New("esocial batch not found")
	ErrNoEmployees           = errors.New("no employees found for the period")
)
