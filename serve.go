package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jalad-shrimali/callreport/handlers"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the upload server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			if env.cfg.Server.GinMode != "" {
				gin.SetMode(env.cfg.Server.GinMode)
			}
			if err := os.MkdirAll(env.cfg.Report.ScratchDir, 0755); err != nil {
				return fmt.Errorf("scratch dir: %w", err)
			}

			h := handlers.NewHandlers(env.cfg.Report, env.days, env.runs)
			router := handlers.SetupRoutes(h, env.cfg.Server.MaxUploadMB)

			addr := env.cfg.Server.Host + ":" + env.cfg.Server.Port
			log.Printf("Server started on %s (mode %s, scratch %s)", addr, env.cfg.Report.Mode, env.cfg.Report.ScratchDir)
			return router.Run(addr)
		},
	}
}
