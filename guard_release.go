//go:build scenetree_release

package scenetree

const guardEnabled = false
