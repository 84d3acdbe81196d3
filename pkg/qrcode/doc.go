// Package qrcode renders provisioning URIs as scannable QR code images.
//
// It is a thin wrapper around github.com/skip2/go-qrcode. Rendering is a pure
// function of the content and the renderer settings: the same URI always
// yields the same PNG bytes, so the image can be produced on demand and never
// needs to be stored next to the secret it encodes.
//
// # Usage
//
//	r := qrcode.NewRenderer(256)
//
//	png, err := r.Render(uri)
//	if err != nil {
//		// handle error
//	}
//
//	// or, for an <img src="..."> attribute
//	dataURI, err := r.DataURI(uri)
//
// # Error Handling
//
//   • ErrEmptyContent             – the content argument was empty.
//   • ErrFailedToGenerateQRCode   – the underlying library could not
//     generate the QR code (for example the content is too long).
package qrcode
