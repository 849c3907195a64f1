package parse

import (
	"net"
	"strings"
	"time"

	"golang.org/x/net/dns/dnsmessage"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
)

// mdnsFacts accumulates every record learnt from one or more mDNS packets
// that mention the same service instance, before they are consolidated
// into a single Observation per distinct hostname.
type mdnsFacts struct {
	hostname string
	ipv4     string
	ipv6     []discovery.IPv6Address
	services []discovery.ServiceDescriptor
	tags     map[string]struct{}
}

// ParseMDNSPacket decodes one mDNS packet (query or response) and returns
// the Observations it implies. Name compression is handled transparently
// by dnsmessage; malformed packets yield no Observations rather than an
// error, since a single bad packet on a shared multicast group should
// never abort the driver.
func ParseMDNSPacket(raw []byte) []discovery.Observation {
	var p dnsmessage.Parser
	if _, err := p.Start(raw); err != nil {
		return nil
	}
	if err := p.SkipAllQuestions(); err != nil {
		return nil
	}

	byHost := make(map[string]*mdnsFacts)
	// instance -> (host, port) learnt from SRV records, consulted once all
	// sections are read so A/AAAA records (often carried as additionals)
	// can be matched up regardless of record order.
	srvHost := make(map[string]string)
	srvPort := make(map[string]int)
	ptrService := make(map[string]string) // instance -> service type

	consume := func(sectionName string) {
		for {
			var header dnsmessage.ResourceHeader
			var err error
			switch sectionName {
			case "answer":
				header, err = p.AnswerHeader()
			case "authority":
				header, err = p.AuthorityHeader()
			default:
				header, err = p.AdditionalHeader()
			}
			if err != nil {
				return
			}

			name := strings.TrimSuffix(header.Name.String(), ".")

			switch header.Type {
			case dnsmessage.TypePTR:
				res, err := p.PTRResource()
				if err == nil {
					instance := strings.TrimSuffix(res.PTR.String(), ".")
					ptrService[instance] = name
				} else {
					_ = skipCurrent(&p, sectionName)
				}
			case dnsmessage.TypeSRV:
				res, err := p.SRVResource()
				if err == nil {
					host := strings.TrimSuffix(res.Target.String(), ".")
					srvHost[name] = host
					srvPort[name] = int(res.Port)
				} else {
					_ = skipCurrent(&p, sectionName)
				}
			case dnsmessage.TypeA:
				res, err := p.AResource()
				if err == nil {
					ip := net.IP(res.A[:]).String()
					f := factsFor(byHost, name)
					f.hostname = name
					f.ipv4 = ip
				} else {
					_ = skipCurrent(&p, sectionName)
				}
			case dnsmessage.TypeAAAA:
				res, err := p.AAAAResource()
				if err == nil {
					ip := net.IP(res.AAAA[:]).String()
					f := factsFor(byHost, name)
					f.hostname = name
					if addr, ok := discovery.NewIPv6Address(ip); ok {
						f.ipv6 = append(f.ipv6, addr)
					}
				} else {
					_ = skipCurrent(&p, sectionName)
				}
			default:
				_ = skipCurrent(&p, sectionName)
			}
		}
	}

	consume("answer")
	consume("authority")
	consume("additional")

	// Resolve instance -> host -> facts, tagging each host with the
	// service types whose PTR/SRV chain led to it.
	for instance, svcType := range ptrService {
		host, ok := srvHost[instance]
		if !ok {
			continue
		}
		f := factsFor(byHost, host)
		f.hostname = host
		if f.tags == nil {
			f.tags = make(map[string]struct{})
		}
		f.tags[svcType] = struct{}{}
		if port, ok := srvPort[instance]; ok && port > 0 {
			f.services = append(f.services, discovery.ServiceDescriptor{
				Port:  port,
				Proto: "tcp",
				Name:  strings.TrimPrefix(svcType, "_"),
			})
		}
	}

	now := time.Now()
	out := make([]discovery.Observation, 0, len(byHost))
	for _, f := range byHost {
		obs := discovery.Observation{
			Source:    discovery.SourceMDNS,
			Timestamp: now,
			Hostname:  firstLabel(f.hostname),
			FQDN:      f.hostname,
			IPv4:      f.ipv4,
			IPv6:      f.ipv6,
			Services:  f.services,
		}
		for tag := range f.tags {
			obs.ServiceTags = append(obs.ServiceTags, tag)
		}
		if obs.HasIdentifier() {
			out = append(out, obs)
		}
	}
	return out
}

func factsFor(m map[string]*mdnsFacts, host string) *mdnsFacts {
	f, ok := m[host]
	if !ok {
		f = &mdnsFacts{}
		m[host] = f
	}
	return f
}

func firstLabel(fqdn string) string {
	if fqdn == "" {
		return ""
	}
	if i := strings.Index(fqdn, "."); i >= 0 {
		return fqdn[:i]
	}
	return fqdn
}

func skipCurrent(p *dnsmessage.Parser, section string) error {
	switch section {
	case "answer":
		return p.SkipAnswer()
	case "authority":
		return p.SkipAuthority()
	default:
		return p.SkipAdditional()
	}
}
