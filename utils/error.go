package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorNoData marks an operation that found nothing to work on
// (e.g. dispatching a batch with zero rows).
var ErrorNoData = errors.New("no data")
