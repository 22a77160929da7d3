package kvserver

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestResolveSockaddr(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		port    int
		wantErr bool
	}{
		{name: "wildcard empty host", host: "", port: 1234},
		{name: "wildcard explicit", host: "0.0.0.0", port: 1234},
		{name: "loopback", host: "127.0.0.1", port: 6379},
		{name: "invalid host", host: "not-an-ip", wantErr: true},
		{name: "ipv6 rejected", host: "::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, err := resolveSockaddr(tt.host, tt.port)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveSockaddr(%q) expected error, got none", tt.host)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveSockaddr(%q) unexpected error: %v", tt.host, err)
			}
			in4, ok := sa.(*unix.SockaddrInet4)
			if !ok {
				t.Fatalf("resolveSockaddr(%q) = %T, want *unix.SockaddrInet4", tt.host, sa)
			}
			if in4.Port != tt.port {
				t.Errorf("Port = %d, want %d", in4.Port, tt.port)
			}
		})
	}
}
