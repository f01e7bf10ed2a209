package hostinfo

import (
	psnet "github.com/shirou/gopsutil/v3/net"
	"go.bug.st/serial"
	"k8s.io/klog/v2"
	"net"
	"strings"
)

// SerialPort is a local serial device. Number is the value a serial LinkConfig takes (COM3 → 3).
type SerialPort struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
}

// Interface is a network interface with the IPv4 addresses usable for an ethernet link.
type Interface struct {
	Name         string   `json:"name"`
	HardwareAddr string   `json:"hardwareAddr,omitempty"`
	Up           bool     `json:"up"`
	IPs          []string `json:"ips"`
}

var (
	listPorts      = serial.GetPortsList
	listInterfaces = psnet.Interfaces
)

func SerialPorts() ([]SerialPort, error) {
	names, err := listPorts()
	if err != nil {
		klog.V(2).InfoS("Failed to list serial ports", "err", err)
		return nil, err
	}
	ports := make([]SerialPort, 0, len(names))
	for _, name := range names {
		ports = append(ports, SerialPort{Name: name, Number: portNumber(name)})
	}
	return ports, nil
}

func portNumber(name string) string {
	if len(name) <= 3 || !strings.EqualFold(name[:3], "COM") {
		return ""
	}
	n := name[3:]
	for _, r := range n {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return n
}

// Interfaces lists non-loopback interfaces, their addresses stripped of the prefix length.
func Interfaces() ([]Interface, error) {
	stats, err := listInterfaces()
	if err != nil {
		klog.V(2).InfoS("Failed to list network interfaces", "err", err)
		return nil, err
	}
	ifaces := make([]Interface, 0, len(stats))
	for _, s := range stats {
		if hasFlag(s.Flags, "loopback") {
			continue
		}
		iface := Interface{
			Name:         s.Name,
			HardwareAddr: s.HardwareAddr,
			Up:           hasFlag(s.Flags, "up"),
			IPs:          make([]string, 0),
		}
		for _, a := range s.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip == nil || ip.To4() == nil {
				continue
			}
			iface.IPs = append(iface.IPs, ip.String())
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
