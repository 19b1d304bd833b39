//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

func write(format, []byte) error { return errUnsupported }

func read(format) ([]byte, error) { return nil, errUnsupported }
