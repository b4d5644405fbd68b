// Package async provides a minimal typed future for delivery paths whose
// result arrives out of band: the processor's immediate-send returns one, and
// push providers complete their futures when the provider acknowledges.
package async
