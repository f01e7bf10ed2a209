package app

import (
	"context"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"os"
	"os/signal"
	"scadatag/cmd/scadatag/config"
	"scadatag/cmd/scadatag/options"
	"scadatag/pkg/generic"
	"scadatag/pkg/web"
	"syscall"
)

func newServeCmd() *cobra.Command {
	o := options.NewDefaultServeOptions()
	return newCommand("serve",
		`Serve the template browser and point table generation over HTTP under /api/v1.`,
		o,
		func() interface{} { return options.NewDefaultServeOptions() },
		func(cmd *cobra.Command) error {
			return runServe(o)
		})
}

var serveConfig = func(o *options.ServeOptions) (*config.Config, error) {
	return o.Config()
}

func runServe(o *options.ServeOptions) error {
	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server
	exitCh := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be catch, so don't need add it
	signal.Notify(exitCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(exitCh)
	return serve(o, exitCh)
}

func serve(o *options.ServeOptions, stop <-chan os.Signal) error {
	c, err := serveConfig(o)
	if err != nil {
		return err
	}
	defer c.Notifier.Close()
	c.CertFile, c.KeyFile = o.CertFile, o.KeyFile

	server, err := web.NewServer(generic.Default(), o, c)
	if err != nil {
		return err
	}

	exit, err := server.Serve()
	if err != nil {
		return err
	}
	klog.V(1).InfoS("Server started", "port", o.Port, "baseDir", o.BaseDir)
	sig := <-stop
	klog.V(1).InfoS("Shutting down", "signal", sig)
	ctx, cancel := context.WithTimeout(context.Background(), o.Wait)
	defer cancel()

	exit(ctx)
	return nil
}
