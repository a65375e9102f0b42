package quantization

import "errors"

// ErrInvalidParameter is returned for training parameters outside their
// valid range (bits, iterations, attempts).
var ErrInvalidParameter = errors.New("quantization: invalid parameter")
