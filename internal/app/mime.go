package app

import (
	"log"
	"mime"
)

// The stylesheet ships in the embedded filesystem, and minimal container
// images often lack a mime.types database, so the extension is registered
// explicitly when the platform has no mapping.
func init() {
	if mime.TypeByExtension(".css") != "" {
		return
	}
	if err := mime.AddExtensionType(".css", "text/css; charset=utf-8"); err != nil {
		log.Printf("app: register .css mime type: %v", err)
	}
}
