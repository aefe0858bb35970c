package main

// Default command-line flag values
const (
	defaultZoom    = 1.0
	defaultDegree  = 3
	defaultQuality = "high"
)

// Channel layouts
const (
	grayChannels = 1
	rgbChannels  = 3
	rgbaChannels = 4
)

// Sample conversion
const (
	degreesPerRad = 180.0
	opaqueAlpha   = 0xffff
)

const minRequiredArgs = 2
