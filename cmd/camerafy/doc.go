// Command camerafy classifies cameras by sensor technology, checks photos
// against the upload gate, and serves the archive API.
//
// Usage:
//
//	camerafy classify --make Canon --model "PowerShot G7"
//	camerafy inspect photo.jpg https://example.com/p.jpg
//	camerafy catalog stats
//	camerafy serve --addr :8787
package main
