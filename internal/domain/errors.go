package domain

import (
	"errors"
	"fmt"
)

// Upstream source names carried by DataUnavailableError.
const (
	SourceCoinGecko = "coingecko"
	SourceGas       = "gas"
	SourceDefiLlama = "defillama"
)

// ErrEmptyResult is returned when generated text yields no usable lines.
var ErrEmptyResult = errors.New("no usable recommendation lines")

// DataUnavailableError reports a failed upstream fetch or parse.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s data unavailable: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func DataUnavailable(source string, err error) error {
	return &DataUnavailableError{Source: source, Err: err}
}

// UpstreamError reports a failed call to the generative service.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generative service failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(err error) error {
	return &UpstreamError{Err: err}
}

// IsDataUnavailable reports whether err came from a data fetcher and, if so,
// which source.
func IsDataUnavailable(err error) (string, bool) {
	var du *DataUnavailableError
	if errors.As(err, &du) {
		return du.Source, true
	}
	return "", false
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
