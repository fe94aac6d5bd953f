// SPDX-License-Identifier: MIT

package main

import (
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// tileEncoder is the contract the compositor and the per-map artifact
// renderer depend on; the WebP codec itself is an external collaborator
// (spec §1) whose implementation is swappable behind this interface.
type tileEncoder interface {
	Encode(w io.Writer, img *image.RGBA, lossless bool) error
}

// nativeWebPEncoder wraps github.com/HugoSmits86/nativewebp, a pure-Go
// WebP encoder, so the core never imports cgo.
type nativeWebPEncoder struct{}

func NewWebPEncoder() tileEncoder { return nativeWebPEncoder{} }

func (nativeWebPEncoder) Encode(w io.Writer, img *image.RGBA, lossless bool) error {
	opts := nativewebp.Options{Lossless: lossless}
	return nativewebp.Encode(w, img, &opts)
}
