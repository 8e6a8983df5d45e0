package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/currawonglabs/canpwm"
	"github.com/currawonglabs/canpwm/connector"
	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/icd"
	"github.com/currawonglabs/canpwm/ingress"
	"github.com/currawonglabs/canpwm/internal"
	"github.com/currawonglabs/canpwm/listener"
	"github.com/currawonglabs/canpwm/logcfg"
	"github.com/currawonglabs/canpwm/sink"
	"github.com/currawonglabs/canpwm/telemetry"
	"github.com/currawonglabs/canpwm/transport"
)

const connectorSize = 16_000

func main() {
	iface := flag.String("iface", "can0", "SocketCAN interface to listen on")
	cfgPath := flag.String("config", "packets.toml", "packet logging configuration file")
	csvPath := flag.String("csv", "-", "CSV output file, - for stdout, empty to disable")
	questdbAddr := flag.String("questdb", "", "QuestDB address, empty to disable")
	questdbTable := flag.String("questdb-table", "canpwm_packets", "QuestDB table name")
	otel := flag.Bool("otel", false, "export traces and metrics over OTLP")
	flag.Parse()

	l := internal.NewLogger("cmd", "canpwm")

	ctx, cancelCtx := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancelCtx()

	if *otel {
		if err := telemetry.Init(ctx, "canpwm"); err != nil {
			l.Error("failed to initialize telemetry", err)
			os.Exit(1)
		}
		defer telemetry.Close(context.Background())
	}

	reg, err := icd.NewRegistry()
	if err != nil {
		l.Error("failed to build packet registry", err)
		os.Exit(1)
	}

	cfg, err := logcfg.Load(*cfgPath)
	if err != nil {
		l.Error("failed to load logging configuration", err, "path", *cfgPath)
		os.Exit(1)
	}

	for _, warn := range cfg.Validate(reg) {
		l.Warn("logging configuration", "issue", warn.String())
	}

	tr, err := transportFor(*iface)
	if err != nil {
		l.Error("failed to open CAN interface", err, "iface", *iface)
		os.Exit(1)
	}

	ing := ingress.NewCANBus(*iface, tr)

	pipeline := canpwm.NewPipeline()
	pipeline.AddStage(ing)

	if *csvPath != "" {
		out := os.Stdout
		if *csvPath != "-" {
			f, err := os.Create(*csvPath)
			if err != nil {
				l.Error("failed to create CSV file", err, "path", *csvPath)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		csvSink, err := sink.NewCSV(out, cfg, reg)
		if err != nil {
			l.Error("failed to create CSV sink", err)
			os.Exit(1)
		}

		addListener(pipeline, ing, listener.New("csv", reg, cfg, csvSink))
	}

	if *questdbAddr != "" {
		qdbCfg := sink.NewDefaultQuestDBConfig()
		qdbCfg.Address = *questdbAddr
		qdbCfg.Table = *questdbTable

		qdbSink, err := sink.NewQuestDB(ctx, qdbCfg)
		if err != nil {
			l.Error("failed to connect to QuestDB", err, "address", *questdbAddr)
			os.Exit(1)
		}

		addListener(pipeline, ing, listener.New("questdb", reg, cfg, qdbSink))
	}

	if err := pipeline.Init(ctx); err != nil {
		l.Error("failed to initialize pipeline", err)
		os.Exit(1)
	}

	pipeline.Run(ctx)
	defer pipeline.Stop()

	<-ctx.Done()
}

func transportFor(iface string) (transport.Transport, error) {
	if iface == "loopback" {
		return transport.NewLoopback(connectorSize), nil
	}

	return transport.NewSocketCAN(iface, connectorSize)
}

func addListener(pipeline *canpwm.Pipeline, ing *ingress.CANBus, lis *listener.Listener) {
	conn := connector.NewRingBuffer[frame.Frame](connectorSize)

	ing.AddOutput(conn)
	lis.SetInput(conn)
	pipeline.AddStage(lis)
}
