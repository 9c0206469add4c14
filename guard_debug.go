//go:build !scenetree_release

package scenetree

// guardEnabled turns on the use-after-destroy checks. Build with the
// scenetree_release tag to compile them out.
const guardEnabled = true
