package main

import (
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
