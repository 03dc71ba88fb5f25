package service

import "strings"

// ResolveExtension derives a file extension from a client-supplied filename.
// Only the last path element counts; a leading dot does not start an extension.
// Empty or missing extensions resolve to FallbackExtension.
func ResolveExtension(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return FallbackExtension
	}
	return base[dot+1:]
}
