package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/miekg/dns"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/config"
	"hostify/internal/models"
)

// probeOutcome classifies one DNS query.
type probeOutcome int

const (
	probeFound    probeOutcome = iota // records exist
	probeNotFound                     // authoritative NXDOMAIN / empty answer
	probeError                        // timeout, refused, network failure
)

// Exchanger issues a single DNS query. Tests substitute a fake.
type Exchanger interface {
	Exchange(ctx context.Context, fqdn string, qtype uint16) (probeOutcome, []dns.RR, error)
}

type liveExchanger struct {
	client  *dns.Client
	servers []string
}

func newLiveExchanger(timeout time.Duration) *liveExchanger {
	servers := []string{"8.8.8.8:53", "1.1.1.1:53"}
	if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
		servers = nil
		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}
	return &liveExchanger{
		client:  &dns.Client{Timeout: timeout},
		servers: servers,
	}
}

func (e *liveExchanger) Exchange(ctx context.Context, fqdn string, qtype uint16) (probeOutcome, []dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(fqdn), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range e.servers {
		resp, _, err := e.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		switch resp.Rcode {
		case dns.RcodeSuccess:
			if len(resp.Answer) == 0 {
				return probeNotFound, nil, nil
			}
			return probeFound, resp.Answer, nil
		case dns.RcodeNameError:
			return probeNotFound, nil, nil
		default:
			return probeError, nil, fmt.Errorf("dns rcode %s for %s", dns.RcodeToString[resp.Rcode], fqdn)
		}
	}
	return probeError, nil, fmt.Errorf("all resolvers failed for %s: %w", fqdn, lastErr)
}

// DomainProbeResult is one confidence-qualified availability answer. A result
// with Certain=false came from an inconclusive probe, not authoritative WHOIS.
type DomainProbeResult struct {
	Domain     string  `json:"domain"`
	Tld        string  `json:"tld"`
	Available  bool    `json:"available"`
	Registered bool    `json:"registered"`
	Certain    bool    `json:"certain"`
	Price      float64 `json:"price"`
	Popular    bool    `json:"popular"`
}

type DomainSearchResult struct {
	SearchTerm string              `json:"search_term"`
	Primary    *DomainProbeResult  `json:"primary,omitempty"`
	Results    []DomainProbeResult `json:"results"`
}

type WhoisSummary struct {
	Domain      string   `json:"domain"`
	Available   bool     `json:"available"`
	Certain     bool     `json:"certain"`
	Registrar   string   `json:"registrar,omitempty"` // advisory, inferred from NS hosts
	Nameservers []string `json:"nameservers,omitempty"`
	SOA         string   `json:"soa,omitempty"`
	ARecords    []string `json:"a_records,omitempty"`
	MXRecords   []string `json:"mx_records,omitempty"`
}

// Known registrar fingerprints matched against nameserver hostnames.
// Advisory text only, not authoritative registrar data.
var registrarHints = []struct{ substr, name string }{
	{"cloudflare", "Cloudflare"},
	{"registrar-servers", "Namecheap"},
	{"namecheap", "Namecheap"},
	{"domaincontrol", "GoDaddy"},
	{"godaddy", "GoDaddy"},
	{"googledomains", "Google Domains"},
	{"awsdns", "Amazon Route 53"},
	{"gandi", "Gandi"},
	{"ovh", "OVH"},
	{"hetzner", "Hetzner"},
	{"digitalocean", "DigitalOcean"},
	{"porkbun", "Porkbun"},
	{"hostinger", "Hostinger"},
}

// DomainService probes domain registration state with a two-step DNS
// heuristic: NS records first, SOA as the fallback signal.
type DomainService struct {
	db        *gorm.DB
	exchanger Exchanger
	redis     *redis.Client
	timeout   time.Duration
	logger    *zap.Logger
}

func NewDomainService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) *DomainService {
	timeout := time.Duration(cfg.DNSProbeTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DomainService{
		db:        db,
		exchanger: newLiveExchanger(timeout),
		redis:     redisClient,
		timeout:   timeout,
		logger:    logger,
	}
}

// SanitizeQuery lower-cases the candidate, strips everything outside
// [a-z0-9.-] and splits it into base label and optional explicit TLD.
func SanitizeQuery(query string) (label, explicitTld string) {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(query)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if i := strings.Index(cleaned, "."); i >= 0 {
		return cleaned[:i], "." + cleaned[i+1:]
	}
	return cleaned, ""
}

// Search probes the label against every active TLD and ranks the results:
// the explicitly queried TLD first, then available before unavailable, then
// popular TLDs, then ascending registration price.
func (s *DomainService) Search(ctx context.Context, query string) (*DomainSearchResult, error) {
	label, explicitTld := SanitizeQuery(query)
	if label == "" {
		return nil, fmt.Errorf("empty domain query")
	}

	var tlds []models.DomainTld
	if err := s.db.Where("active = ?", true).Find(&tlds).Error; err != nil {
		return nil, err
	}

	out := &DomainSearchResult{SearchTerm: label + explicitTld, Results: []DomainProbeResult{}}

	for _, tld := range tlds {
		res := s.probe(ctx, label, &tld)
		if explicitTld != "" && tld.Tld == explicitTld {
			out.Primary = &res
		}
		out.Results = append(out.Results, res)
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		a, b := out.Results[i], out.Results[j]
		if ax, bx := a.Tld == explicitTld, b.Tld == explicitTld; ax != bx {
			return ax
		}
		if a.Available != b.Available {
			return a.Available
		}
		if a.Popular != b.Popular {
			return a.Popular
		}
		return a.Price < b.Price
	})

	return out, nil
}

// Lookup probes a single fully qualified candidate, e.g. "example.com".
func (s *DomainService) Lookup(ctx context.Context, domain string) (*DomainProbeResult, error) {
	label, explicitTld := SanitizeQuery(domain)
	if label == "" || explicitTld == "" {
		return nil, fmt.Errorf("expected a full domain name")
	}

	var tld models.DomainTld
	if err := s.db.Where("tld = ? AND active = ?", explicitTld, true).First(&tld).Error; err == nil {
		res := s.probe(ctx, label, &tld)
		return &res, nil
	}
	// TLD not in the catalog: probe anyway, without pricing.
	res := s.probe(ctx, label, &models.DomainTld{Tld: explicitTld})
	return &res, nil
}

func (s *DomainService) probe(ctx context.Context, label string, tld *models.DomainTld) DomainProbeResult {
	fqdn := label + tld.Tld
	res := DomainProbeResult{
		Domain:  fqdn,
		Tld:     tld.Tld,
		Price:   tld.PriceFor("register"),
		Popular: tld.Popular,
	}

	if cached, ok := s.cachedProbe(ctx, fqdn); ok {
		cached.Price, cached.Popular = res.Price, res.Popular
		return cached
	}

	available, registered, certain := s.classify(ctx, fqdn)
	res.Available = available
	res.Registered = registered
	res.Certain = certain

	s.storeProbe(ctx, fqdn, res)
	return res
}

// classify runs the two-step heuristic. NS found means registered; NS then
// SOA both absent means available; anything else is available-but-uncertain.
func (s *DomainService) classify(ctx context.Context, fqdn string) (available, registered, certain bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	nsOutcome, _, nsErr := s.exchanger.Exchange(ctx, fqdn, dns.TypeNS)
	switch nsOutcome {
	case probeFound:
		return false, true, true
	case probeNotFound:
		soaOutcome, _, soaErr := s.exchanger.Exchange(ctx, fqdn, dns.TypeSOA)
		switch soaOutcome {
		case probeFound:
			return false, true, true
		case probeNotFound:
			return true, false, true
		default:
			s.logger.Debug("soa probe inconclusive", zap.String("domain", fqdn), zap.Error(soaErr))
			return true, false, false
		}
	default:
		s.logger.Debug("ns probe inconclusive", zap.String("domain", fqdn), zap.Error(nsErr))
		return true, false, false
	}
}

// Whois assembles a best-effort record summary. Registrar inference is a
// substring match over nameserver hostnames, advisory only.
func (s *DomainService) Whois(ctx context.Context, domain string) (*WhoisSummary, error) {
	probe, err := s.Lookup(ctx, domain)
	if err != nil {
		return nil, err
	}

	summary := &WhoisSummary{
		Domain:    probe.Domain,
		Available: probe.Available,
		Certain:   probe.Certain,
	}
	if probe.Available {
		return summary, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if outcome, answers, _ := s.exchanger.Exchange(qctx, probe.Domain, dns.TypeNS); outcome == probeFound {
		for _, rr := range answers {
			if ns, ok := rr.(*dns.NS); ok {
				summary.Nameservers = append(summary.Nameservers, strings.TrimSuffix(ns.Ns, "."))
			}
		}
	}
	if outcome, answers, _ := s.exchanger.Exchange(qctx, probe.Domain, dns.TypeSOA); outcome == probeFound {
		for _, rr := range answers {
			if soa, ok := rr.(*dns.SOA); ok {
				summary.SOA = strings.TrimSuffix(soa.Ns, ".")
				break
			}
		}
	}
	if outcome, answers, _ := s.exchanger.Exchange(qctx, probe.Domain, dns.TypeA); outcome == probeFound {
		for _, rr := range answers {
			if a, ok := rr.(*dns.A); ok {
				summary.ARecords = append(summary.ARecords, a.A.String())
			}
		}
	}
	if outcome, answers, _ := s.exchanger.Exchange(qctx, probe.Domain, dns.TypeMX); outcome == probeFound {
		for _, rr := range answers {
			if mx, ok := rr.(*dns.MX); ok {
				summary.MXRecords = append(summary.MXRecords, strings.TrimSuffix(mx.Mx, "."))
			}
		}
	}

	summary.Registrar = inferRegistrar(summary.Nameservers)
	return summary, nil
}

func inferRegistrar(nameservers []string) string {
	for _, ns := range nameservers {
		host := strings.ToLower(ns)
		for _, hint := range registrarHints {
			if strings.Contains(host, hint.substr) {
				return hint.name
			}
		}
	}
	return ""
}

const probeCacheTTL = 10 * time.Minute

func (s *DomainService) cachedProbe(ctx context.Context, fqdn string) (DomainProbeResult, bool) {
	if s.redis == nil {
		return DomainProbeResult{}, false
	}
	raw, err := s.redis.Get(ctx, "domain:probe:"+fqdn).Result()
	if err != nil {
		return DomainProbeResult{}, false
	}
	var res DomainProbeResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return DomainProbeResult{}, false
	}
	return res, true
}

func (s *DomainService) storeProbe(ctx context.Context, fqdn string, res DomainProbeResult) {
	if s.redis == nil || !res.Certain {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, "domain:probe:"+fqdn, raw, probeCacheTTL).Err(); err != nil {
		s.logger.Debug("probe cache write failed", zap.String("domain", fqdn), zap.Error(err))
	}
}
