package template

import (
	"context"
	"net"
	"strings"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
)

// HostIPMarker is replaced by the chosen host address after rendering.
const HostIPMarker = "%{HOSTIP}"

const fallbackHostIP = "127.0.0.1"

// AddrLister returns the IPv4 addresses of the local interfaces in
// enumeration order.
type AddrLister func() ([]string, error)

// InterfaceIPv4s lists the IPv4 addresses of every local interface.
func InterfaceIPv4s() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip4 := ip.To4(); ip4 != nil {
				out = append(out, ip4.String())
			}
		}
	}
	return out, nil
}

// SelectHostIP picks the first private-class (10.*, 192.*, 172.*) or
// non-127.0.0.1 loopback address, then the first address at all, then
// 127.0.0.1.
func SelectHostIP(addrs []string) string {
	for _, a := range addrs {
		if preferredHostIP(a) {
			return a
		}
	}
	if len(addrs) > 0 {
		return addrs[0]
	}
	return fallbackHostIP
}

func preferredHostIP(ip string) bool {
	switch {
	case strings.HasPrefix(ip, "10."),
		strings.HasPrefix(ip, "192."),
		strings.HasPrefix(ip, "172."):
		return true
	case strings.HasPrefix(ip, "127."):
		return ip != fallbackHostIP
	}
	return false
}

// SubstituteHostIP replaces every marker in text with a single address.
// Interfaces are only enumerated when the marker is present.
func SubstituteHostIP(ctx context.Context, text string, list AddrLister) string {
	if !strings.Contains(text, HostIPMarker) {
		return text
	}

	addrs, err := list()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to enumerate interfaces, using loopback.", "error", err)
		addrs = nil
	}
	ip := SelectHostIP(addrs)
	ctxlog.FromContext(ctx).Debug("Host IP selected.", "ip", ip, "candidates", addrs)
	return strings.ReplaceAll(text, HostIPMarker, ip)
}
