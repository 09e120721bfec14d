// Package treasurytest provides mocks and helpers for testing treasury
// extensions: addresses, handlers, decorators and stores.
package treasurytest
