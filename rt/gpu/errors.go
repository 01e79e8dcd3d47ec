package gpu

import "errors"

var (
	ErrNegativeIntensity = errors.New("gpu: negative light intensity")
	ErrNonFinite         = errors.New("gpu: non-finite value")
	ErrLengthMismatch    = errors.New("gpu: lights and centers differ in length")
	ErrCapacityExceeded  = errors.New("gpu: catalog capacity exceeded")
	ErrZeroScreenSize    = errors.New("gpu: zero screen dimension")
	ErrZeroSdfScale      = errors.New("gpu: zero sdf scale component")
	ErrSingularViewProj  = errors.New("gpu: view-projection matrix is not invertible")
	ErrInvalidProbeGrid  = errors.New("gpu: probe grid dimensions must be positive")
	ErrProbeIndex        = errors.New("gpu: probe index out of range")
	ErrPassParamsUnset   = errors.New("gpu: probe size and atlas dimensions must be set")
)
