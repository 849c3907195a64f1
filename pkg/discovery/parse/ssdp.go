package parse

import (
	"bufio"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
)

// SSDPResponse is the header set extracted from one SSDP
// HTTP/1.1-over-UDP response or NOTIFY announcement.
type SSDPResponse struct {
	Headers  map[string]string
	Location string
	USN      string
	ST       string
	Server   string
}

// ParseSSDPResponse parses one raw UDP datagram as an SSDP response. The
// first line must start with "HTTP/" (unicast M-SEARCH reply) or "NOTIFY"
// (multicast announcement); anything else is rejected.
func ParseSSDPResponse(raw string) (SSDPResponse, bool) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	if !scanner.Scan() {
		return SSDPResponse{}, false
	}
	first := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(strings.ToUpper(first), "HTTP/") && !strings.HasPrefix(strings.ToUpper(first), "NOTIFY") {
		return SSDPResponse{}, false
	}

	headers := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])
		headers[key] = val
	}

	resp := SSDPResponse{
		Headers:  headers,
		Location: headers["location"],
		USN:      headers["usn"],
		Server:   headers["server"],
	}
	if st, ok := headers["st"]; ok {
		resp.ST = st
	} else if nt, ok := headers["nt"]; ok {
		resp.ST = nt
	}
	return resp, true
}

// ToObservation converts a parsed SSDP response into an Observation. The
// host portion of Location, when present, becomes the IPv4/IPv6
// identifier; Server feeds OS/model inference and ST/NT feeds usage
// classification via ServiceTags.
func (r SSDPResponse) ToObservation() (discovery.Observation, bool) {
	obs := discovery.Observation{
		Source:    discovery.SourceSSDP,
		Timestamp: time.Now(),
		OS:        r.Server,
	}
	if r.ST != "" {
		obs.ServiceTags = []string{r.ST}
	}
	if r.Location != "" {
		if u, err := url.Parse(r.Location); err == nil {
			host := u.Hostname()
			if parsed := net.ParseIP(host); parsed != nil && parsed.To4() != nil {
				obs.IPv4 = parsed.To4().String()
			} else if ip, ok := discovery.NewIPv6Address(host); ok {
				obs.IPv6 = []discovery.IPv6Address{ip}
			}
			if port := u.Port(); port != "" {
				if p, err := parsePort(port); err == nil {
					obs.Ports = []int{p}
					obs.Services = []discovery.ServiceDescriptor{{Port: p, Proto: "tcp", Name: "upnp"}}
				}
			}
		}
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

func parsePort(s string) (int, error) {
	var p int
	_, err := fmt.Sscanf(s, "%d", &p)
	return p, err
}
