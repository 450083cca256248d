package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"

	"domsync/engine"
)

const serverName = "domsync-server"

var (
	version = "0.0.1"
)

func main() {
	ctx := context.Background()
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	log, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := engine.DefaultConfig()
	if path := os.Getenv("DOMSYNC_CONFIG"); path != "" {
		cfg, err = engine.LoadConfig(path)
		if err != nil {
			log.Fatal("bad config", zap.String("path", path), zap.Error(err))
		}
	}

	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	server := newServer(engine.New(engine.WithLogger(log), engine.WithConfig(cfg)), log)
	conn := jsonrpc2.NewConn(stream)
	server.conn = conn
	conn.Go(ctx, server.handle)
	log.Info("listening on stdio", zap.String("server", serverName), zap.String("version", version))
	<-conn.Done()
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
