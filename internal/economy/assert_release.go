//go:build !economydev

package economy

const devAssertions = false
