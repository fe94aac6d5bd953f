// SPDX-License-Identifier: MIT

package main

// Version is the tool's identifier, used as the output template's
// cache-busting query string (spec §4.5). Signatures do not hash it; they
// use the separate toolVersion byte in cache.go.
const Version = "0.1"
