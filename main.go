package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, &app{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOpts struct {
	configFile string
	envFile    string
	logLevel   string
}

// execute 运行一次命令；无论成功与否都会释放 a 持有的资源。
func execute(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "winesheet",
		Short:         "生成葡萄酒产品说明书 PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "配置文件路径（yaml/toml/json）")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env 文件路径，默认读取当前目录的 .env")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "覆盖日志级别 debug|info|warn|error")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}
