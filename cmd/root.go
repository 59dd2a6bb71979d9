package cmd

import (
	"log"

	"github.com/chatmux/chatmux/internal/config"
	"github.com/chatmux/chatmux/internal/logger"
	"github.com/chatmux/chatmux/internal/server"
)

func Execute() {
	cfg, err := config.Init()
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(cfg.Dev, cfg.LogPath)

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatal("Error starting server: ", err)
	}
}
