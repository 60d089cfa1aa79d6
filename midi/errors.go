// SPDX-License-Identifier: EPL-2.0

package midi

import "errors"

var (
	// ErrPortOutOfRange reports a port number no attached device answers to.
	ErrPortOutOfRange = errors.New("midi port number out of range")

	// ErrPortClosed reports IO on a port after Close.
	ErrPortClosed = errors.New("midi port is closed")
)
