package main

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/winesheet/server"
	"github.com/ByLCY/winesheet/sheet"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 PDF 下载服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a.openRepository(ctx)
			if err != nil {
				return err
			}
			gen, err := a.newGenerator(ctx, generatorOverrides{})
			if err != nil {
				return err
			}

			httpCfg := server.HTTPConfig{
				Addr:            a.cfg.Server.Addr,
				ReadTimeout:     a.cfg.Server.ReadTimeout,
				WriteTimeout:    a.cfg.Server.WriteTimeout,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
			}
			if addr != "" {
				httpCfg.Addr = addr
			}
			srv := server.New(repo, gen,
				server.WithLogger(a.logger.Named("http")),
				server.WithLabels(gen.Labels()),
				server.WithGenerateTimeout(a.cfg.Server.GenerateTimeout),
			)
			return srv.ListenAndServe(ctx, httpCfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "覆盖监听地址，例如 :8080")
	return cmd
}

var _ server.Generator = (*sheet.Generator)(nil)
