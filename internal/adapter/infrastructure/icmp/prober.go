// Package icmp provides an ICMP echo prober adapter implementation.
package icmp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1

var payload = []byte("golang-pingcompare")

type replyKind int

const (
	replyIgnored replyKind = iota
	replyEcho
	replyUnreachable
)

// ProberAdapter is an adapter that implements the Prober port using golang.org/x/net/icmp.
// Privileged mode uses a raw "ip4:icmp" socket; otherwise an unprivileged "udp4" ICMP
// datagram socket is used, which on Linux needs net.ipv4.ping_group_range to cover the user.
type ProberAdapter struct {
	privileged bool
	id         int
	seq        atomic.Uint32
}

// Ensure ProberAdapter implements the Prober port
var _ port.Prober = (*ProberAdapter)(nil)

// NewProberAdapter creates a new ICMP prober adapter.
func NewProberAdapter(privileged bool) *ProberAdapter {
	return &ProberAdapter{
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
	}
}

// Probe sends one echo request to addr and waits for the matching reply.
func (p *ProberAdapter) Probe(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error) {
	result := types.ProbeResult{Address: addr}

	target := addr.To4()
	if target == nil {
		return result, fmt.Errorf("%w: %s is not an IPv4 address", types.ErrProbeDispatch, addr)
	}

	conn, err := p.listen()
	if err != nil {
		return result, fmt.Errorf("%w: failed to open ICMP socket: %w", types.ErrProbeDispatch, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	seq := int(p.seq.Add(1) & 0xffff)
	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: payload,
		},
	}
	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		return result, fmt.Errorf("%w: failed to marshal ICMP message: %w", types.ErrProbeDispatch, err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return result, fmt.Errorf("%w: failed to set read deadline: %w", types.ErrProbeDispatch, err)
	}

	// cancellation unblocks ReadFrom by moving the deadline to now
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.WriteTo(msgBytes, p.destination(target)); err != nil {
		return result, fmt.Errorf("%w: failed to send echo request to %s: %w", types.ErrProbeDispatch, target, err)
	}

	reply := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				result.Err = fmt.Errorf("%w: no echo reply from %s within %s", types.ErrTimeout, target, timeout)
			} else {
				result.Err = fmt.Errorf("%w: %s: %w", types.ErrUnreachable, target, err)
			}
			return result, nil
		}

		switch classifyReply(reply[:n], peerIP(peer), target, p.id, seq, p.privileged) {
		case replyEcho:
			result.Reachable = true
			return result, nil
		case replyUnreachable:
			result.Err = fmt.Errorf("%w: destination unreachable reported for %s", types.ErrUnreachable, target)
			return result, nil
		}
	}
}

func (p *ProberAdapter) listen() (*icmp.PacketConn, error) {
	if p.privileged {
		return icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	}
	return icmp.ListenPacket("udp4", "0.0.0.0")
}

func (p *ProberAdapter) destination(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}
	return &net.UDPAddr{IP: ip}
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	}
	return nil
}

// classifyReply decides whether b answers the echo request (id, seq) sent to target.
// Unprivileged sockets have their echo ID rewritten by the kernel, so the ID is only
// compared when matchID is set.
func classifyReply(b []byte, from, target net.IP, id, seq int, matchID bool) replyKind {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return replyIgnored
	}

	switch msg.Type {
	case ipv4.ICMPTypeEchoReply:
		echo, ok := msg.Body.(*icmp.Echo)
		if !ok || !matchesEcho(echo, id, seq, matchID) {
			return replyIgnored
		}
		if !from.Equal(target) {
			return replyIgnored
		}
		return replyEcho

	case ipv4.ICMPTypeDestinationUnreachable:
		body, ok := msg.Body.(*icmp.DstUnreach)
		if !ok {
			return replyIgnored
		}
		// the body quotes the original IPv4 header followed by the first 8 bytes of our request
		h, err := ipv4.ParseHeader(body.Data)
		if err != nil || !h.Dst.Equal(target) || len(body.Data) < h.Len {
			return replyIgnored
		}
		inner, err := icmp.ParseMessage(protocolICMP, body.Data[h.Len:])
		if err != nil {
			return replyIgnored
		}
		echo, ok := inner.Body.(*icmp.Echo)
		if !ok || !matchesEcho(echo, id, seq, matchID) {
			return replyIgnored
		}
		return replyUnreachable
	}

	return replyIgnored
}

func matchesEcho(echo *icmp.Echo, id, seq int, matchID bool) bool {
	if echo.Seq != seq {
		return false
	}
	return !matchID || echo.ID == id
}
