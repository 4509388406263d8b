// Package main provides the varta command line client.
//
// The CLI works on the same workspace as the HTTP server: it reads the same
// environment (DB_DRIVER, DATABASE_URL, GEMINI_API_KEY, ...) and shares the
// signed-in session.
//
// Usage:
//
//	varta register --email asha@example.com --name "Asha Rao"
//	varta generate --keyword "masala chai" --platform Instagram
//	varta history
package main

func main() {
	Execute()
}
