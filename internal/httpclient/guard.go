package httpclient

import (
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	ierr "github.com/flexprice/invoicer/internal/errors"
)

// sharedAddressSpace is the carrier-grade NAT range, not covered by
// netip.Addr.IsPrivate
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// IsPublicAddr reports whether addr is a globally routable unicast address.
// Loopback, private, link-local (cloud metadata included) and unspecified
// addresses are not.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsGlobalUnicast() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast() &&
		!sharedAddressSpace.Contains(addr)
}

// publicOnly is a net.Dialer control hook refusing connections to anything
// but public addresses. It runs after name resolution, so a public name that
// resolves to an internal address is refused too.
func publicOnly(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !IsPublicAddr(addr) {
		return ierr.NewErrorf("refusing to connect to non-public address %s", addr).
			WithHint("The remote host is not reachable from this service").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

// guardTransport makes client dial public addresses only
func guardTransport(client *http.Client) {
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		return
	}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   publicOnly,
	}
	transport.DialContext = dialer.DialContext
	transport.Proxy = nil
}
