package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeExchanger scripts probe outcomes per fqdn+qtype.
type fakeExchanger struct {
	outcomes map[string]probeOutcome // key: "example.com/NS"
	answers  map[string][]dns.RR
}

func (f *fakeExchanger) Exchange(_ context.Context, fqdn string, qtype uint16) (probeOutcome, []dns.RR, error) {
	key := fqdn + "/" + dns.TypeToString[qtype]
	outcome, ok := f.outcomes[key]
	if !ok {
		return probeNotFound, nil, nil
	}
	if outcome == probeError {
		return probeError, nil, errors.New("connection refused")
	}
	return outcome, f.answers[key], nil
}

func newDomainService(t *testing.T, db *gorm.DB, fake *fakeExchanger) *DomainService {
	t.Helper()
	return &DomainService{
		db:        db,
		exchanger: fake,
		timeout:   time.Second,
		logger:    zap.NewNop(),
	}
}

func TestSanitizeQuery(t *testing.T) {
	cases := []struct {
		in, label, tld string
	}{
		{"MySite.COM", "mysite", ".com"},
		{"my site!.com", "mysite", ".com"},
		{"mysite", "mysite", ""},
		{"  my-site.co.uk  ", "my-site", ".co.uk"},
		{".com.", "com", ""},
	}
	for _, tc := range cases {
		label, tld := SanitizeQuery(tc.in)
		assert.Equal(t, tc.label, label, "input %q", tc.in)
		assert.Equal(t, tc.tld, tld, "input %q", tc.in)
	}
}

func TestClassifyRegisteredWhenNSFound(t *testing.T) {
	db := newTestDB(t)
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{"taken.com/NS": probeFound},
	})

	available, registered, certain := svc.classify(context.Background(), "taken.com")
	assert.False(t, available)
	assert.True(t, registered)
	assert.True(t, certain)
}

func TestClassifyAvailableWhenNSAndSOAMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newDomainService(t, db, &fakeExchanger{outcomes: map[string]probeOutcome{}})

	available, registered, certain := svc.classify(context.Background(), "free.com")
	assert.True(t, available)
	assert.False(t, registered)
	assert.True(t, certain)
}

func TestClassifySOAFallbackFindsRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{
			"parked.com/NS":  probeNotFound,
			"parked.com/SOA": probeFound,
		},
	})

	available, registered, certain := svc.classify(context.Background(), "parked.com")
	assert.False(t, available)
	assert.True(t, registered)
	assert.True(t, certain)
}

func TestClassifyUncertainOnResolverError(t *testing.T) {
	db := newTestDB(t)
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{"flaky.com/NS": probeError},
	})

	available, registered, certain := svc.classify(context.Background(), "flaky.com")
	assert.True(t, available, "inconclusive probes surface as available")
	assert.False(t, registered)
	assert.False(t, certain, "but never as a certainty")
}

func TestSearchRanking(t *testing.T) {
	db := newTestDB(t)
	seedTld(t, db, ".com", 12.99, true)
	seedTld(t, db, ".net", 11.99, false)
	seedTld(t, db, ".io", 34.99, true)
	seedTld(t, db, ".org", 10.99, false)

	// .com registered; everything else free.
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{"mysite.com/NS": probeFound},
	})

	result, err := svc.Search(context.Background(), "mysite.com")
	require.NoError(t, err)
	require.Len(t, result.Results, 4)

	// Explicit TLD first even though it is unavailable.
	assert.Equal(t, "mysite.com", result.Results[0].Domain)
	require.NotNil(t, result.Primary)
	assert.False(t, result.Primary.Available)

	// Then available ones: popular before non-popular, then ascending price.
	assert.Equal(t, "mysite.io", result.Results[1].Domain)
	assert.Equal(t, "mysite.org", result.Results[2].Domain)
	assert.Equal(t, "mysite.net", result.Results[3].Domain)
}

func TestLookupOutsideCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{"mysite.dev/NS": probeFound},
	})

	res, err := svc.Lookup(context.Background(), "mysite.dev")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, 0.0, res.Price)
}

func TestWhoisInfersRegistrarFromNameservers(t *testing.T) {
	db := newTestDB(t)
	seedTld(t, db, ".com", 12.99, true)

	nsKey := "mysite.com/NS"
	svc := newDomainService(t, db, &fakeExchanger{
		outcomes: map[string]probeOutcome{nsKey: probeFound},
		answers: map[string][]dns.RR{nsKey: {
			&dns.NS{Hdr: dns.RR_Header{Name: "mysite.com.", Rrtype: dns.TypeNS}, Ns: "dns1.registrar-servers.com."},
			&dns.NS{Hdr: dns.RR_Header{Name: "mysite.com.", Rrtype: dns.TypeNS}, Ns: "dns2.registrar-servers.com."},
		}},
	})

	summary, err := svc.Whois(context.Background(), "mysite.com")
	require.NoError(t, err)
	assert.False(t, summary.Available)
	assert.Equal(t, "Namecheap", summary.Registrar)
	assert.Equal(t, []string{"dns1.registrar-servers.com", "dns2.registrar-servers.com"}, summary.Nameservers)
}

func TestWhoisAvailableDomainSkipsRecordLookups(t *testing.T) {
	db := newTestDB(t)
	seedTld(t, db, ".com", 12.99, true)
	svc := newDomainService(t, db, &fakeExchanger{outcomes: map[string]probeOutcome{}})

	summary, err := svc.Whois(context.Background(), "free-name.com")
	require.NoError(t, err)
	assert.True(t, summary.Available)
	assert.Empty(t, summary.Nameservers)
	assert.Empty(t, summary.Registrar)
}
