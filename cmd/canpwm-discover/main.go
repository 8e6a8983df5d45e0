package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/currawonglabs/canpwm/discovery"
	"github.com/currawonglabs/canpwm/icd"
	"github.com/currawonglabs/canpwm/internal"
	"github.com/currawonglabs/canpwm/transport"
)

func main() {
	iface := flag.String("iface", "can0", "SocketCAN interface to scan")
	window := flag.Duration("window", 2*time.Second, "how long to wait for replies")
	flag.Parse()

	l := internal.NewLogger("cmd", "canpwm-discover")

	reg, err := icd.NewRegistry()
	if err != nil {
		l.Error("failed to build packet registry", err)
		os.Exit(1)
	}

	tr, err := transport.NewSocketCAN(*iface, 1024)
	if err != nil {
		l.Error("failed to open CAN interface", err, "iface", *iface)
		os.Exit(1)
	}
	defer tr.Close()

	devices, err := discovery.Discover(context.Background(), tr, reg, icd.DeviceTypeCAN2PWM, *window)
	if err != nil {
		l.Error("discovery failed", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		l.Info("no devices found", "iface", *iface)
		return
	}

	for _, dev := range devices {
		fmt.Printf("node 0x%02X: serial 0x%06X, hw rev %d\n", dev.NodeID, dev.SerialNumber, dev.HardwareRev)
	}
}
