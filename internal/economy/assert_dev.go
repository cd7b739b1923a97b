//go:build economydev

package economy

// devAssertions turns programmer errors, such as unknown catalog ids, into panics.
const devAssertions = true
