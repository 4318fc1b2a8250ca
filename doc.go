// Package redfish implements bsend, the blocking batch-RPC coordinator
// of the redfish distributed filesystem prototype.
//
// bsend lets a caller fan out up to N concurrent request/response (or
// fire-and-forget) transactions to possibly distinct peers over a
// non-blocking, callback-driven Messenger, then synchronously wait until
// every transaction has reached a terminal state, collecting responses
// or errors. The coordinator logic lives in internal/bsend; this package
// is the public surface a caller embeds: Coordinator wires a bsend
// context to a Messenger, a metrics sink, and the module's textual and
// fast-log diagnostics.
//
// A typical caller creates one Coordinator per burst of fan-out work:
//
//	c, err := redfish.NewCoordinator(messenger, maxTr)
//	for _, peer := range peers {
//		c.Add(ctx, redfish.FlagExpectResponse, msg, peer.IP, peer.Port, timeout, peer.Tag)
//	}
//	c.Join()
//	for i := 0; i < c.NumSent(); i++ {
//		tr := c.Transaction(i)
//		// inspect tr.M / tr.Err
//	}
//	c.Reset()
package redfish
