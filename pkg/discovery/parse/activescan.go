package parse

import (
	"bufio"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
)

var (
	reReportHeaderV4 = regexp.MustCompile(`(?i)scan report for\s+(?:(\S+)\s+)?\(?(\d{1,3}(?:\.\d{1,3}){3})\)?`)
	reReportHeaderV6 = regexp.MustCompile(`(?i)scan report for\s+(?:(\S+)\s+)?\(?([0-9a-fA-F:]+:[0-9a-fA-F:]*)\)?`)
	rePortLine       = regexp.MustCompile(`(?i)^(\d+)/(tcp|udp)\s+open\s+(\S+)(?:\s+(.*))?$`)
	reMACLine        = regexp.MustCompile(`(?i)MAC Address:\s*([0-9A-Fa-f:]{17})(?:\s+\((.+)\))?`)
	reOSCPELine      = regexp.MustCompile(`(?i)OS CPE:\s*(\S+)`)
	reOSDetailsLine  = regexp.MustCompile(`(?i)OS details:\s*(.+)`)
	reRunningLine    = regexp.MustCompile(`(?i)Running:\s*(.+)`)
	reNetBIOSLine    = regexp.MustCompile(`(?i)NetBIOS name:\s*([^,]+)`)
	reWorkgroupLine  = regexp.MustCompile(`(?i)Workgroup:\s*([^,]+)`)
	reSMBComputer    = regexp.MustCompile(`(?i)(?:smb-)?computer name:\s*(\S+)`)
	reRDPTargetName  = regexp.MustCompile(`(?i)Target_Name:\s*(\S+)`)
	reDNSComputer    = regexp.MustCompile(`(?i)DNS Computer Name:\s*(\S+)`)
	reDNSDomain      = regexp.MustCompile(`(?i)DNS Domain Name:\s*(\S+)`)
)

// activeScanState accumulates every line belonging to one "scan report
// for" block until the next header (or EOF) closes it out.
type activeScanState struct {
	ip           string
	hostname     string
	fqdn         string
	mac          string
	manufacturer string
	workgroup    string
	os           string
	ports        []int
	services     []discovery.ServiceDescriptor
	started      bool
}

func (s *activeScanState) reset(host, ip string) {
	*s = activeScanState{ip: ip, hostname: host, started: true}
}

func (s *activeScanState) toObservation() (discovery.Observation, bool) {
	if !s.started || s.ip == "" {
		return discovery.Observation{}, false
	}
	obs := discovery.Observation{
		Source:       discovery.SourceActiveTCP,
		Timestamp:    time.Now(),
		MAC:          s.mac,
		Hostname:     s.hostname,
		FQDN:         s.fqdn,
		Workgroup:    s.workgroup,
		Manufacturer: s.manufacturer,
		OS:           s.os,
		Ports:        s.ports,
		Services:     s.services,
	}
	if ip := parseIPOrNil(s.ip); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			obs.IPv4 = v4.String()
		} else if addr, ok := discovery.NewIPv6Address(ip.String()); ok {
			obs.IPv6 = []discovery.IPv6Address{addr}
		}
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

// ParseActiveScanOutput parses the textual report of an active port
// scanner (one or more "scan report for" blocks) and returns one
// Observation per target host.
func ParseActiveScanOutput(r io.Reader) []discovery.Observation {
	var out []discovery.Observation
	var state activeScanState

	flush := func() {
		if obs, ok := state.toObservation(); ok {
			out = append(out, obs)
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := reReportHeaderV4.FindStringSubmatch(line); m != nil {
			flush()
			state.reset(m[1], m[2])
			continue
		}
		if m := reReportHeaderV6.FindStringSubmatch(line); m != nil {
			flush()
			state.reset(m[1], m[2])
			continue
		}
		if !state.started {
			continue
		}

		if m := rePortLine.FindStringSubmatch(line); m != nil {
			port, err := strconv.Atoi(m[1])
			if err == nil {
				state.ports = append(state.ports, port)
				state.services = append(state.services, discovery.ServiceDescriptor{
					Port:    port,
					Proto:   strings.ToLower(m[2]),
					Name:    m[3],
					Version: strings.TrimSpace(m[4]),
				})
			}
			continue
		}
		if m := reMACLine.FindStringSubmatch(line); m != nil {
			state.mac = strings.ToUpper(m[1])
			state.manufacturer = strings.TrimSpace(m[2])
			continue
		}
		if m := reOSCPELine.FindStringSubmatch(line); m != nil {
			state.os = normalizeOSFromCPE(m[1])
			continue
		}
		if m := reOSDetailsLine.FindStringSubmatch(line); m != nil && state.os == "" {
			state.os = strings.TrimSpace(m[1])
			continue
		}
		if m := reRunningLine.FindStringSubmatch(line); m != nil && state.os == "" {
			state.os = strings.TrimSpace(m[1])
			continue
		}
		if m := reNetBIOSLine.FindStringSubmatch(line); m != nil && state.hostname == "" {
			state.hostname = strings.TrimSpace(m[1])
			continue
		}
		if m := reWorkgroupLine.FindStringSubmatch(line); m != nil {
			state.workgroup = strings.TrimSpace(m[1])
			continue
		}
		if m := reSMBComputer.FindStringSubmatch(line); m != nil && state.hostname == "" {
			state.hostname = strings.TrimSpace(m[1])
			continue
		}
		if m := reRDPTargetName.FindStringSubmatch(line); m != nil && state.hostname == "" {
			state.hostname = strings.TrimSpace(m[1])
			continue
		}
		if m := reDNSComputer.FindStringSubmatch(line); m != nil && state.hostname == "" {
			state.hostname = strings.TrimSpace(m[1])
			continue
		}
		if m := reDNSDomain.FindStringSubmatch(line); m != nil {
			state.fqdn = state.hostname + "." + strings.TrimSpace(m[1])
			continue
		}
	}
	flush()
	return out
}

// normalizeOSFromCPE turns a CPE string like "cpe:/o:microsoft:windows_10"
// into a human OS string such as "Microsoft Windows 10".
func normalizeOSFromCPE(cpe string) string {
	parts := strings.Split(cpe, ":")
	if len(parts) < 4 {
		return cpe
	}
	vendor := capitalizeWords(strings.ReplaceAll(parts[2], "_", " "))
	product := capitalizeWords(strings.ReplaceAll(parts[3], "_", " "))
	if len(parts) > 4 && parts[4] != "" {
		return vendor + " " + product + " " + parts[4]
	}
	return vendor + " " + product
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func parseIPOrNil(s string) net.IP {
	return net.ParseIP(s)
}
