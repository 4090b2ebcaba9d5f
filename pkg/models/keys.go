package models

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases name and replaces each run of whitespace with a dash
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// FrameKey is the storage key of an imported frame for a device color
func FrameKey(deviceID, colorName string) string {
	return deviceID + "/" + Slug(colorName)
}

// Filename is the suggested download name for an exported mockup
func Filename(deviceID, colorName, ext string) string {
	return "mockup-" + deviceID + "-" + Slug(colorName) + "." + strings.TrimPrefix(ext, ".")
}
