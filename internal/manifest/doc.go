// Package manifest reads and writes the image manifest: a flat JSON array
// of image paths that feeds the slideshow and the gallery.
//
//	[
//	  "img/atividade-1.jpg",
//	  "img/roda.webp"
//	]
//
// Only entries ending in .jpg, .jpeg, .png, .webp, .gif or .svg (any case)
// are kept. Load accepts an http(s) URL or a file path; callers treat a
// failure as "no images" and carry on without the slideshow and gallery.
// Generate builds a manifest from an image directory.
package manifest
