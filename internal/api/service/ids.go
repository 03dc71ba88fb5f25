package service

import (
	"fmt"
	"net/url"
)

// FallbackExtension is used when the client filename carries no extension.
const FallbackExtension = "bin"

// ImageRoutePrefix is the URL path under which stored images are served.
const ImageRoutePrefix = "/i"

// buildImageName joins a generated token and an extension into a stored filename.
func buildImageName(id string, ext string) string {
	return id + "." + ext
}

// buildPublicURL returns the browser-facing URL of a stored image.
// The name is path-escaped since client extensions may contain '#' or '?'.
func buildPublicURL(scheme, host, name string) string {
	return fmt.Sprintf("%s://%s%s/%s", scheme, host, ImageRoutePrefix, url.PathEscape(name))
}
