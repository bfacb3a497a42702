package dcs

import (
	"errors"
	"fmt"
)

// ErrMalformedToken is returned when a CoNLL-U line does not have ten columns.
var ErrMalformedToken = errors.New("malformed conllu token")

// ConversionError reports a feature value that has no standard equivalent.
type ConversionError struct {
	Value string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("could not parse value `%s`", e.Value)
}

// UnknownCategoryError is the panic value for an unknown part of speech.
type UnknownCategoryError struct {
	UPOS string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown upos `%s`", e.UPOS)
}
