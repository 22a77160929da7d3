package kvserver

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// resolveSockaddr turns a configured host/port pair into the raw
// sockaddr unix.Bind expects. IPv6 listeners are out of scope: spec.md's
// listener is IPv4-only, matching original_source/server.cpp.
func resolveSockaddr(host string, port int) (unix.Sockaddr, error) {
	var ip net.IP
	if host == "" || host == "0.0.0.0" {
		ip = net.IPv4zero
	} else {
		ip = net.ParseIP(host)
		if ip == nil {
			return nil, fmt.Errorf("invalid listener host %q", host)
		}
	}

	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("listener host %q is not an IPv4 address", host)
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip4)
	return sa, nil
}
