// Package drivertest provides a scriptable in-process driver stub for
// exercising the bridge without a real server. Every driver call is
// recorded in order, and each operation can be overridden with a hook to
// script errors, replies and dropped connections.
package drivertest
