//go:build tools

// Package relaychat tracks tool dependencies invoked through go generate.
package relaychat

import (
	_ "go.uber.org/mock/mockgen"
)
