package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// Kind is a coarse classification of a fetch failure.
type Kind int

const (
	KindOther Kind = iota
	KindTimeout
	KindConnection
	KindTLS
)

// String returns the short name used in SCAN_ERROR flags.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindTLS:
		return "tls"
	default:
		return "other"
	}
}

// FetchError is returned by Requester.Fetch for every failed request.
type FetchError struct {
	URL  string
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(rawURL string, err error) *FetchError {
	return &FetchError{URL: rawURL, Kind: Classify(err), Err: err}
}

// KindOf returns the Kind carried by a *FetchError in err's chain, falling
// back to Classify for foreign errors. A nil error is KindOther.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Classify(err)
}

// Classify maps an error from net/http onto a Kind. Timeouts win over the
// other categories so a stalled TLS handshake is reported as a timeout.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if isTLSError(err) {
		return KindTLS
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return KindConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindConnection
	}

	return KindOther
}

func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		return true
	}
	// Handshake failures that crypto/tls reports as plain errors.
	msg := err.Error()
	return strings.Contains(msg, "tls: ") || strings.Contains(msg, "x509: ")
}
