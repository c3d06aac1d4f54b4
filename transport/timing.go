package transport

import (
	"crypto/tls"
	"net/http/httptrace"
	"time"
)

// TimingInfo stores detailed timing information for one transfer.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from connection established to receiving the first byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// trace returns a ClientTrace that fills in the phase durations of ti.
func (ti *TimingInfo) trace() *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool

	// End of the last completed phase; TTFB is measured from here.
	lastPhaseEnd := ti.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			now := time.Now()
			ti.DNSLookupTime = now.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || connectStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				return
			}
			now := time.Now()
			ti.TCPConnectTime = now.Sub(connectStart)
			connectDone = true
			lastPhaseEnd = now
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err != nil || tlsHandshakeStart.IsZero() {
				return
			}
			now := time.Now()
			ti.TLSHandshakeTime = now.Sub(tlsHandshakeStart)
			lastPhaseEnd = now
		},
		GotFirstResponseByte: func() {
			ti.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}

// GetTotalTimeMillis returns the total time in milliseconds
func (ti TimingInfo) GetTotalTimeMillis() int64 {
	return ti.TotalTime.Milliseconds()
}

// GetTimeToFirstByteMillis returns the time to first byte in milliseconds
func (ti TimingInfo) GetTimeToFirstByteMillis() int64 {
	return ti.TimeToFirstByte.Milliseconds()
}
