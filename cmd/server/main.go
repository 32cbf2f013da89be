package main

import "vibro/internal/app"

// @title        Vibro API
// @version      1.0
// @description  Social video-sharing backend: cookie-session auth, uploads, likes, comments.
// @BasePath     /
func main() {
	app.Run()
}
